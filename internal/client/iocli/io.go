package iocli

//go:generate moq -out io_mock.go . IO

// IO - терминал CLI: вывод, ввод строки и ввод пароля без эха.
// Write позволяет отдавать IO в text/tabwriter.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
