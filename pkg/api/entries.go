package api

import "time"

// Значения параметра entryType в поиске
const (
	EntryTypeParamIndividual = "1"
	EntryTypeParamEntity     = "2"
)

// Entry - запись санкционного списка в API
type Entry struct {
	LoadDate       time.Time `json:"load_date,omitzero"`
	SourceList     string    `json:"source_list,omitempty"`
	EntryType      string    `json:"entry_type,omitempty"`
	FullName       string    `json:"full_name,omitempty"`
	Name1          string    `json:"name1,omitempty"`
	Name2          string    `json:"name2,omitempty"`
	Name3          string    `json:"name3,omitempty"`
	Name4          string    `json:"name4,omitempty"`
	Title          string    `json:"title,omitempty"`
	JobTitle       string    `json:"job_title,omitempty"`
	DOB            string    `json:"dob,omitempty"`
	POB            string    `json:"pob,omitempty"`
	Alias          string    `json:"alias,omitempty"`
	Nationality    string    `json:"nationality,omitempty"`
	PassportNo     string    `json:"passport_no,omitempty"`
	IdentityNo     string    `json:"identity_no,omitempty"`
	Address        string    `json:"address,omitempty"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	ID             int64     `json:"id,omitempty"`
}

// BulkEntriesRequest представляет пакетную загрузку записей
type BulkEntriesRequest struct {
	Entries []Entry `json:"entries"`
}
