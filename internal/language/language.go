package language

import "strings"

type entry struct {
	code    string   // engine code, ISO 639-1 except where noted
	code3   string   // ISO 639-2
	display string   // Human-readable name
	aliases []string // other accepted spellings
}

// languages lists what the multilingual synthesis models accept.
var languages = []entry{
	{"en", "eng", "English", []string{"english", "en-us", "en-gb"}},
	{"es", "spa", "Spanish", []string{"spanish", "español", "es-es", "es-mx"}},
	{"fr", "fra", "French", []string{"french", "français", "fre"}},
	{"de", "deu", "German", []string{"german", "deutsch", "ger"}},
	{"it", "ita", "Italian", []string{"italian"}},
	{"pt", "por", "Portuguese", []string{"portuguese", "pt-br", "pt-pt"}},
	{"pl", "pol", "Polish", []string{"polish"}},
	{"tr", "tur", "Turkish", []string{"turkish"}},
	{"ru", "rus", "Russian", []string{"russian"}},
	{"nl", "nld", "Dutch", []string{"dutch", "dut"}},
	{"cs", "ces", "Czech", []string{"czech", "cze"}},
	{"ar", "ara", "Arabic", []string{"arabic"}},
	// The multilingual models name Mandarin zh-cn.
	{"zh-cn", "zho", "Chinese", []string{"chinese", "mandarin", "zh", "chi", "zh-hans"}},
	{"ja", "jpn", "Japanese", []string{"japanese"}},
	{"hu", "hun", "Hungarian", []string{"hungarian"}},
	{"ko", "kor", "Korean", []string{"korean"}},
	{"hi", "hin", "Hindi", []string{"hindi"}},
}

var index map[string]*entry

func init() {
	index = make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		index[e.code] = e
		index[e.code3] = e
		for _, alias := range e.aliases {
			index[alias] = e
		}
	}
}

func lookup(value string) *entry {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-")
	if key == "" {
		return nil
	}
	return index[key]
}

// Normalize maps a language name or code to the code synthesis engines
// expect. Unrecognized input is returned lower-cased so engines with wider
// coverage (eSpeak NG) still receive it.
func Normalize(value string) string {
	if e := lookup(value); e != nil {
		return e.code
	}
	return strings.ToLower(strings.TrimSpace(value))
}

// Supported reports whether value names a language the multilingual models
// accept.
func Supported(value string) bool {
	return lookup(value) != nil
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
