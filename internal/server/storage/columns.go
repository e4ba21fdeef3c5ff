package storage

import (
	"strings"

	"github.com/mmvit/garudar/internal/models"
)

// NameColumns - колонки, участвующие в поиске по именам
var NameColumns = []string{
	"full_name", "name1", "name2", "name3", "name4", "alias",
}

// AllColumns - колонки, участвующие в поиске по всем данным
var AllColumns = append(append([]string{}, NameColumns...),
	"job_title", "dob", "pob", "nationality", "passport_no", "identity_no",
	"address", "additional_info", "source_list", "title",
)

// SearchColumns возвращает колонки для заданной области поиска
func SearchColumns(scope models.SearchScope) []string {
	if scope == models.SearchAllFields {
		return AllColumns
	}
	return NameColumns
}

// LikePattern превращает поисковую строку в шаблон для LIKE ... ESCAPE '\'.
// Спецсимволы LIKE экранируются, строка приводится к нижнему регистру.
func LikePattern(query string) string {
	var b []rune
	for _, r := range strings.ToLower(query) {
		switch r {
		case '\\', '%', '_':
			b = append(b, '\\')
		}
		b = append(b, r)
	}
	return "%" + string(b) + "%"
}
