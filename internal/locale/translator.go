package locale

// Translation keys used by the production core.
const (
	KeyActionDone      = "production.done"
	KeyStateDefault    = "production.state_default"
	KeyStateFinal      = "production.state_final"
	KeyOrderReverted   = "production.reverted"
	KeyOrderDeleted    = "production.deleted"
	KeyOrderAdvanced   = "production.advanced"
	KeySubjectReverted = "production.subject_reverted"
	KeySubjectDeleted  = "production.subject_deleted"
	KeySystemName      = "production.system"
	KeyTitleLabel      = "production.title"
	KeyDeletedBy       = "production.deleted_by"
	KeyStateChanged    = "production.state_changed"
)

// Translator resolves a message key in a language.
type Translator interface {
	Translate(l Lang, key string) string
}

// Catalog is an in-memory Translator. Unknown keys translate to themselves.
type Catalog map[string]Names

// Translate implements Translator.
func (c Catalog) Translate(l Lang, key string) string {
	if names, ok := c[key]; ok {
		if v := names.Pick(l); v != "" {
			return v
		}
	}
	return key
}

// Builtin returns the messages the production core emits.
func Builtin() Catalog {
	return Catalog{
		KeyActionDone:      {EN: "Done", BG: "Готово", FR: "Terminé"},
		KeyStateDefault:    {EN: "Waiting", BG: "Изчакване", FR: "En attente"},
		KeyStateFinal:      {EN: "Ready", BG: "Готов", FR: "Prêt"},
		KeyOrderReverted:   {EN: "The order was reverted", BG: "Поръчката е върната", FR: "La commande a été renvoyée"},
		KeyOrderDeleted:    {EN: "The order was deleted", BG: "Поръчката е изтрита", FR: "La commande a été supprimée"},
		KeyOrderAdvanced:   {EN: "The order was moved on", BG: "Поръчката е придвижена", FR: "La commande a avancé"},
		KeySubjectReverted: {EN: "reverted", BG: "върната", FR: "renvoyée"},
		KeySubjectDeleted:  {EN: "DELETED", BG: "ИЗТРИТА", FR: "SUPPRIMÉE"},
		KeySystemName:      {EN: "SYSTEM", BG: "SYSTEM", FR: "SYSTEM"},
		KeyTitleLabel:      {EN: "Title", BG: "Заглавие", FR: "Titre"},
		KeyDeletedBy:       {EN: "was deleted by (sales)", BG: "е изтрита от (търговец)", FR: "a été supprimée par (commercial)"},
		KeyStateChanged:    {EN: "State changed", BG: "Променено състояние", FR: "État modifié"},
	}
}
