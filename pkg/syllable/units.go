package syllable

// Consonant clusters that are never split across syllables
var consonantGroups = []string{
	"qu", "ch", "ph", "fl", "fr", "st", "br", "cr", "cl", "pr", "tr", "ct", "th", "sp",
}

// Diphthongs, kept whole and treated as a single nucleus
var diphthongs = []string{"ae", "au", "ei", "oe", "ui", "ya", "ex", "ix"}

var vowels = []string{"a", "e", "i", "o", "u", "y"}

// catalogue is the tokenization order: all consonant groups, then all diphthongs
var catalogue = append(append([]string(nil), consonantGroups...), diphthongs...)

var nuclei = func() map[string]bool {
	m := make(map[string]bool, len(vowels)+len(diphthongs))
	for _, v := range vowels {
		m[v] = true
	}
	for _, d := range diphthongs {
		m[d] = true
	}
	return m
}()

func isNucleus(s string) bool { return nuclei[s] }

// Irregular words with a fixed split
var exceptions = map[string][]string{
	"euouae":    {"e", "u", "o", "u", "ae"},
	"cuius":     {"cu", "ius"},
	"eius":      {"e", "ius"},
	"iugum":     {"iu", "gum"},
	"iustum":    {"iu", "stum"},
	"iusticiam": {"iu", "sti", "ci", "am"},
	"iohannes":  {"io", "han", "nes"},
}

// Abbreviation is a scribal abbreviation found in OCR output together with the syllables it
// stands for. Segment k replaces the k-th character of Short.
type Abbreviation struct {
	Short    string
	Segments []string
}

// abbreviations is built once and never modified; Abbreviations hands out copies
var abbreviations = []Abbreviation{
	{Short: "dns", Segments: []string{"do", "mi", "nus"}},
	{Short: "dūs", Segments: []string{"do", "mi", "nus"}},
	{Short: "dne", Segments: []string{"do", "mi", "ne"}},
	{Short: "alla", Segments: []string{"al", "le", "lu", "ia"}},
	{Short: "xpc", Segments: []string{"xp", "ic", "tuc"}},
	{Short: "^", Segments: []string{"us"}},
	{Short: "ā", Segments: []string{"am"}},
	{Short: "ē", Segments: []string{"em"}},
	{Short: "ū", Segments: []string{"um"}},
	{Short: "ō", Segments: []string{"om"}},
}

// Abbreviations returns the abbreviation table in application order.
// The result is a copy and may be modified by the caller.
func Abbreviations() []Abbreviation {
	out := make([]Abbreviation, len(abbreviations))
	for i, a := range abbreviations {
		out[i] = Abbreviation{Short: a.Short, Segments: append([]string(nil), a.Segments...)}
	}
	return out
}
