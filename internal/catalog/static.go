package catalog

import (
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/station"
)

// Item is a catalog row with names in every language.
type Item struct {
	ID    uint
	Hex   string
	Names locale.Names
}

// ElementItem is a production element with its names.
type ElementItem struct {
	ID    station.Element
	Slug  string
	Names locale.Names
}

// StateItem is a configurable preparer state.
type StateItem struct {
	ID        uint
	Hex       string
	IsDefault bool
	IsFinal   bool
	Names     locale.Names
}

// StaticElements returns the built-in element catalog.
func StaticElements() []ElementItem {
	return []ElementItem{
		{station.Cover, "cover", locale.Names{locale.EN: "Cover", locale.BG: "Корица", locale.FR: "Couverture"}},
		{station.Text, "text", locale.Names{locale.EN: "Text", locale.BG: "Книжно тяло", locale.FR: "Intérieur"}},
		{station.Insert, "insert", locale.Names{locale.EN: "Insert", locale.BG: "Вложка", locale.FR: "Encart"}},
		{station.Jacket, "jacket", locale.Names{locale.EN: "Jacket", locale.BG: "Обложка", locale.FR: "Jaquette"}},
		{station.Banderole, "banderole", locale.Names{locale.EN: "Banderole", locale.BG: "Бандерол", locale.FR: "Bandeau"}},
		{station.Endpapers, "endpapers", locale.Names{locale.EN: "Endpapers", locale.BG: "Форзац", locale.FR: "Pages de garde"}},
	}
}

// StaticSamples returns the built-in sample catalog.
func StaticSamples() []Item {
	return []Item{
		{1, "CCCCCC", locale.Names{locale.BG: "Без", locale.EN: "Without", locale.FR: "Sans"}},
		{2, "FFD700", locale.Names{locale.BG: "Проба от клиент", locale.EN: "Client sample", locale.FR: "Fourni par le client"}},
		{3, "4C6ECE", locale.Names{locale.BG: "Мостра", locale.EN: "Sample", locale.FR: "Echantillon"}},
		{4, "6DC174", locale.Names{locale.BG: "Дигитална Проба", locale.EN: "Digital proof", locale.FR: "Chromalin"}},
		{5, "FFC0CB", locale.Names{locale.BG: "Реална Проба", locale.EN: "Running sheets", locale.FR: "Essai réel"}},
	}
}

// EnabledSamples are the sample types that require preparer work: digital
// proof and running sheets.
func EnabledSamples() []uint {
	return []uint{4, 5}
}

func same(name string) locale.Names {
	return locale.Names{locale.BG: name, locale.EN: name, locale.FR: name}
}

// StaticSecondProductions returns the reasons a job is produced again.
func StaticSecondProductions() []Item {
	return []Item{
		{ID: 1, Names: same("Допечатка")},
		{ID: 2, Names: same("Смяна на машина")},
		{ID: 3, Names: same("Надраскана")},
		{ID: 4, Names: same("Пасер")},
		{ID: 5, Names: same("Нови файлове")},
		{ID: 6, Names: same("Нов монтаж")},
		{ID: 7, Names: same("Паднала")},
		{ID: 8, Names: same("Свалена")},
		{ID: 9, Names: same("Тонирала")},
		{ID: 10, Names: same("Крива")},
	}
}

// Bendings returns the fold options. Id 0 means no fold.
func Bendings() []Item {
	return []Item{
		{ID: 0, Names: same("Без")},
		{ID: 1, Names: same("1 гънка")},
		{ID: 2, Names: same("2 гънки")},
		{ID: 3, Names: same("3 гънки")},
		{ID: 4, Names: same("4 гънки")},
		{ID: 5, Names: same("3 гънки хармоника")},
		{ID: 6, Names: same("4 гънки хармоника")},
	}
}

// StaticPreparerStates returns the default spine states of the preparer.
func StaticPreparerStates() []StateItem {
	return []StateItem{
		{1, "CCCCCC", true, false, locale.Names{locale.EN: "Not started", locale.BG: "Незапочната", locale.FR: "Non commencé"}},
		{2, "FFD700", false, false, locale.Names{locale.EN: "In progress", locale.BG: "В процес", locale.FR: "En cours"}},
		{3, "4C6ECE", false, false, locale.Names{locale.EN: "Awaiting approval", locale.BG: "Чака одобрение", locale.FR: "En attente de validation"}},
		{4, "6DC174", false, true, locale.Names{locale.EN: "Done", locale.BG: "Готова", locale.FR: "Terminé"}},
	}
}
