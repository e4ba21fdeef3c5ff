package api

// TokenTypeBearer - тип токена в ответе на логин
const TokenTypeBearer = "Bearer"

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде, передается только по TLS
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	Token     string `json:"token"`      // JWT access token
	TokenType string `json:"token_type"` // всегда "Bearer"
	ExpiresIn int64  `json:"expires_in"` // время жизни токена в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`  // ok или degraded
	Version string `json:"version"` // версия сервера
}
