package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "type" or "format"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			msg = "型 {type} に一致しません"
		case "invalid_format":
			msg = "型 {type} のフォーマット {format} に一致しません"
		case "invalid_schema":
			msg = "未知の型 {type} が宣言されています"
		case "format_unresolvable":
			msg = "フォーマット {format} の検証器を読み込めません"
		case "required":
			msg = "必須パラメータが不足しています"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			msg = "value is not of type {type}"
		case "invalid_format":
			msg = "value does not match format {format} of type {type}"
		case "invalid_schema":
			msg = "declared type {type} is not known"
		case "format_unresolvable":
			msg = "validator for format {format} could not be loaded"
		case "required":
			msg = "required parameter missing"
		}
	}
	if msg == "" {
		return code
	}
	return expand(msg, data)
}

func expand(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
