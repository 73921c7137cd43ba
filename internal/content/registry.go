package content

import (
	"fmt"
)

// Collection — тег упорядоченной коллекции контента.
type Collection string

const (
	CollectionSkills         Collection = "skills"
	CollectionExperiences    Collection = "experiences"
	CollectionServices       Collection = "services"
	CollectionCertifications Collection = "certifications"
	CollectionProjects       Collection = "projects"
)

// AppendPolicy определяет, куда попадает новый документ коллекции:
// в конец последовательности (max+1) или в начало (min-1).
type AppendPolicy string

const (
	AppendEnd   AppendPolicy = "end"
	AppendStart AppendPolicy = "start"
)

// Spec описывает правила коллекции: обязательные поля payload и
// политику добавления. Конфигурация вместо наследования — одна
// реализация хранилища обслуживает все коллекции.
type Spec struct {
	Required []string
	Policy   AppendPolicy
}

// registry — единственный источник правды о коллекциях.
// Опыт работы добавляется в начало: свежая запись должна
// сортироваться первой.
var registry = map[Collection]Spec{
	CollectionSkills: {
		Required: []string{"title", "icon"},
		Policy:   AppendEnd,
	},
	CollectionExperiences: {
		Required: []string{"position", "company", "duration"},
		Policy:   AppendStart,
	},
	CollectionServices: {
		Required: []string{"title", "description", "icon"},
		Policy:   AppendEnd,
	},
	CollectionCertifications: {
		Required: []string{"title", "issuer"},
		Policy:   AppendEnd,
	},
	CollectionProjects: {
		Required: []string{"title", "description"},
		Policy:   AppendEnd,
	},
}

// Lookup возвращает спецификацию коллекции.
func Lookup(c Collection) (Spec, bool) {
	spec, ok := registry[c]
	return spec, ok
}

// Parse проверяет, что строка является известной коллекцией.
func Parse(raw string) (Collection, error) {
	c := Collection(raw)
	if _, ok := registry[c]; !ok {
		return "", fmt.Errorf("content: неизвестная коллекция %q", raw)
	}
	return c, nil
}

// All возвращает список всех зарегистрированных коллекций.
func All() []Collection {
	out := make([]Collection, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	return out
}
