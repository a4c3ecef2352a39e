package application

import (
	"regexp"
	"strconv"
	"strings"

	"smart-home-agent/internal/domain"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+(?:['-][a-z0-9]+)*|-\d+`)

// trigger phrases per action, in precedence order: the first action with a
// matching phrase wins.
var triggerTable = []struct {
	action  domain.Action
	phrases []string
}{
	{domain.ActionMedia, []string{"play", "song", "songs", "music", "track", "playlist", "album", "radio", "podcast"}},
	{domain.ActionVolume, []string{"volume", "louder", "quieter", "softer", "mute", "turn up", "turn down", "turn it up", "turn it down"}},
	{domain.ActionPower, []string{"turn on", "turn off", "switch on", "switch off", "power", "shut off", "toggle", "on", "off"}},
}

// multi-word rooms first so "master bedroom" wins over "bedroom".
var knownLocations = []string{
	"master bedroom", "living room", "dining room", "guest room",
	"bedroom", "kitchen", "office", "bathroom", "garage", "hallway", "basement",
	"nursery", "den", "patio", "garden", "attic", "porch", "study", "lounge",
}

var deviceTypeWords = map[string]domain.DeviceType{
	"speaker":    domain.DeviceTypeSpeaker,
	"speakers":   domain.DeviceTypeSpeaker,
	"thermostat": domain.DeviceTypeThermostat,
	"heater":     domain.DeviceTypeThermostat,
	"light":      domain.DeviceTypeLight,
	"lights":     domain.DeviceTypeLight,
	"lamp":       domain.DeviceTypeLight,
	"bulb":       domain.DeviceTypeLight,
	"tv":         domain.DeviceTypeTV,
	"television": domain.DeviceTypeTV,
	"plug":       domain.DeviceTypePlug,
	"outlet":     domain.DeviceTypePlug,
}

var (
	volumeUpWords   = map[string]bool{"up": true, "louder": true, "raise": true, "increase": true, "higher": true, "boost": true}
	volumeDownWords = map[string]bool{"down": true, "quieter": true, "softer": true, "lower": true, "decrease": true, "reduce": true}
	// a number right after one of these is the new level
	volumeLevelAnchors = map[string]bool{"volume": true, "to": true, "at": true, "level": true}
	// words that may sit between an anchor and its number
	volumeNumberGap = map[string]bool{"the": true, "it": true, "a": true}
	mediaStopWords  = map[string]bool{"on": true, "in": true, "at": true, "through": true, "via": true, "from": true}
	mediaFillers    = map[string]bool{"some": true, "me": true, "us": true, "please": true}
	mediaArticles   = map[string]bool{"the": true, "a": true, "an": true}
)

// maxAnchorDistance is how many tokens a volume number may sit after its
// anchor word.
const maxAnchorDistance = 3

// Classifier maps free text to a command using static keyword tables. It
// holds no state and never fails.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

func (c *Classifier) Classify(text string) domain.Command {
	tokens := tokenize(text)
	cmd := domain.Command{Action: domain.ActionUnknown, RawText: text}
	if len(tokens) == 0 {
		return cmd
	}

	for _, entry := range triggerTable {
		if matchesAny(tokens, entry.phrases) {
			cmd.Action = entry.action
			break
		}
	}
	if cmd.Action == domain.ActionUnknown {
		return cmd
	}

	cmd.Location = extractLocation(tokens)
	cmd.DeviceType = extractDeviceType(tokens)

	switch cmd.Action {
	case domain.ActionMedia:
		cmd.Media = extractMedia(tokens)
	case domain.ActionVolume:
		cmd.Volume = extractVolume(tokens)
	case domain.ActionPower:
		cmd.Power = extractPower(tokens)
	}

	return cmd
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func matchesAny(tokens []string, phrases []string) bool {
	for _, p := range phrases {
		if indexPhrase(tokens, strings.Fields(p)) >= 0 {
			return true
		}
	}
	return false
}

// indexPhrase returns the token index where phrase starts, or -1.
func indexPhrase(tokens, phrase []string) int {
	if len(phrase) == 0 {
		return -1
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, word := range phrase {
			if tokens[i+j] != word {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func extractLocation(tokens []string) string {
	for _, loc := range knownLocations {
		if indexPhrase(tokens, strings.Fields(loc)) >= 0 {
			return loc
		}
	}
	return ""
}

func extractDeviceType(tokens []string) domain.DeviceType {
	for _, tok := range tokens {
		if t, ok := deviceTypeWords[tok]; ok {
			return t
		}
	}
	return ""
}

func extractPower(tokens []string) domain.PowerTarget {
	has := func(word string) bool { return indexPhrase(tokens, []string{word}) >= 0 }
	switch {
	case has("off") || has("shut"):
		return domain.PowerOff
	case has("on"):
		return domain.PowerOn
	case has("toggle") || has("power"):
		return domain.PowerToggle
	default:
		return domain.PowerMissing
	}
}

func extractVolume(tokens []string) domain.VolumeTarget {
	if indexPhrase(tokens, []string{"mute"}) >= 0 {
		return domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: domain.VolumeMin}
	}

	direction := volumeDirection(tokens)

	if anchor, n, ok := anchoredNumber(tokens); ok {
		switch {
		case volumeLevelAnchors[anchor]:
			return domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: n}
		case volumeUpWords[anchor]:
			return domain.VolumeTarget{Mode: domain.VolumeRelative, Value: n}
		case volumeDownWords[anchor]:
			return domain.VolumeTarget{Mode: domain.VolumeRelative, Value: -n}
		case direction != 0:
			return domain.VolumeTarget{Mode: domain.VolumeRelative, Value: direction * n}
		default:
			return domain.VolumeTarget{}
		}
	}

	if direction != 0 {
		return domain.VolumeTarget{Mode: domain.VolumeRelative, Value: direction * domain.VolumeStep}
	}
	return domain.VolumeTarget{}
}

func volumeDirection(tokens []string) int {
	for _, tok := range tokens {
		if volumeUpWords[tok] {
			return 1
		}
		if volumeDownWords[tok] {
			return -1
		}
	}
	return 0
}

// anchoredNumber finds the first integer token that follows an anchor
// word ("to", "by", a direction word) with at most a few gap words in
// between. It returns the anchor and the number.
func anchoredNumber(tokens []string) (string, int, bool) {
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		for back := 1; back <= maxAnchorDistance && i-back >= 0; back++ {
			prev := tokens[i-back]
			if prev == "by" || volumeLevelAnchors[prev] || volumeUpWords[prev] || volumeDownWords[prev] {
				return prev, n, true
			}
			if !volumeNumberGap[prev] {
				break
			}
		}
	}
	return "", 0, false
}

func extractMedia(tokens []string) string {
	start := indexPhrase(tokens, []string{"play"})
	if start < 0 {
		return ""
	}

	rest := tokens[start+1:]
	skip := locationSpans(rest)

	var words []string
	for i, tok := range rest {
		if mediaStopWords[tok] {
			break
		}
		if skip[i] {
			continue
		}
		if _, ok := deviceTypeWords[tok]; ok {
			continue
		}
		if len(words) == 0 && mediaFillers[tok] {
			continue
		}
		words = append(words, tok)
	}
	for len(words) > 0 && mediaArticles[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// locationSpans marks every token that belongs to a known room name.
func locationSpans(tokens []string) map[int]bool {
	spans := make(map[int]bool)
	for _, loc := range knownLocations {
		phrase := strings.Fields(loc)
		for i := 0; i+len(phrase) <= len(tokens); i++ {
			if indexPhrase(tokens[i:i+len(phrase)], phrase) == 0 {
				for j := range phrase {
					spans[i+j] = true
				}
			}
		}
	}
	return spans
}
