package profile

import "strings"

// InterfaceLanguage is a locale the user interface and notification mails
// are available in.
type InterfaceLanguage struct {
	Code string
	Name string
}

// SupportedLanguages is the fixed set of interface locales a profile may pick.
var SupportedLanguages = []InterfaceLanguage{
	{Code: "ca", Name: "Català"},
	{Code: "cs", Name: "Česky"},
	{Code: "da", Name: "Dansk"},
	{Code: "de", Name: "Deutsch"},
	{Code: "en", Name: "English"},
	{Code: "el", Name: "Ελληνικά"},
	{Code: "es", Name: "Español"},
	{Code: "fi", Name: "Suomi"},
	{Code: "fr", Name: "Français"},
	{Code: "gl", Name: "Galego"},
	{Code: "hu", Name: "Magyar"},
	{Code: "id", Name: "Indonesia"},
	{Code: "ja", Name: "日本語"},
	{Code: "ko", Name: "한국어"},
	{Code: "nl", Name: "Nederlands"},
	{Code: "pl", Name: "Polski"},
	{Code: "pt", Name: "Português"},
	{Code: "pt_BR", Name: "Português brasileiro"},
	{Code: "ru", Name: "Русский"},
	{Code: "sv", Name: "Svenska"},
	{Code: "tr", Name: "Türkçe"},
	{Code: "uk", Name: "Українська"},
	{Code: "zh_CN", Name: "简体字"},
	{Code: "zh_TW", Name: "正體字"},
}

// IsSupportedLanguage reports whether code is a valid interface language.
// Codes compare case-insensitively and accept '-' in place of '_'.
func IsSupportedLanguage(code string) bool {
	_, ok := lookupLanguage(code)
	return ok
}

// CanonicalLanguage returns the code in its canonical spelling, or false
// when it is not supported.
func CanonicalLanguage(code string) (string, bool) {
	l, ok := lookupLanguage(code)
	return l.Code, ok
}

func lookupLanguage(code string) (InterfaceLanguage, bool) {
	norm := strings.ReplaceAll(strings.TrimSpace(code), "-", "_")
	for _, l := range SupportedLanguages {
		if strings.EqualFold(l.Code, norm) {
			return l, true
		}
	}
	return InterfaceLanguage{}, false
}
