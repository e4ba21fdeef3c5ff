package models

import "time"

// EntryType константы для типов записей
const (
	EntryTypeIndividual = "Individual" // физическое лицо
	EntryTypeEntity     = "Entity"     // юридическое лицо
)

// Entry представляет запись санкционного списка.
// Записи загружаются администратором пакетно и доступны для поиска
// всем аутентифицированным пользователям.
type Entry struct {
	LoadDate       time.Time `json:"load_date"`       // дата пакетной загрузки
	SourceList     string    `json:"source_list"`     // исходный список (например, "UN", "OFAC")
	EntryType      string    `json:"entry_type"`      // Individual или Entity
	FullName       string    `json:"full_name"`       // полное имя или наименование
	Name1          string    `json:"name1"`           // части имени
	Name2          string    `json:"name2"`           //
	Name3          string    `json:"name3"`           //
	Name4          string    `json:"name4"`           //
	Title          string    `json:"title"`           // обращение, титул
	JobTitle       string    `json:"job_title"`       // должность
	DOB            string    `json:"dob"`             // дата рождения как в источнике
	POB            string    `json:"pob"`             // место рождения
	Alias          string    `json:"alias"`           // псевдонимы
	Nationality    string    `json:"nationality"`     // гражданство
	PassportNo     string    `json:"passport_no"`     // номер паспорта
	IdentityNo     string    `json:"identity_no"`     // номер удостоверения личности
	Address        string    `json:"address"`         // адрес
	AdditionalInfo string    `json:"additional_info"` // дополнительная информация
	ID             int64     `json:"id"`              // числовой идентификатор
}

// SearchScope определяет набор полей, по которым идет поиск
type SearchScope int

const (
	// SearchNames ищет только по полям имени и псевдонимам
	SearchNames SearchScope = iota
	// SearchAllFields ищет по всем текстовым полям записи
	SearchAllFields
)

// EntrySearch описывает параметры поиска записей
type EntrySearch struct {
	Query     string      // подстрока, регистр не учитывается
	EntryType string      // EntryTypeIndividual или EntryTypeEntity
	Scope     SearchScope // имена или все поля
}
