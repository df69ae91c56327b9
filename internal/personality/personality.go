// Package personality defines the static registry of assistant personas.
// Each entry binds a key to a system prompt and display metadata; adding a
// persona is a data change here, nothing downstream needs to know.
package personality

import (
	"errors"
	"sort"
)

// ErrUnknownPersonality is returned for keys that are not registered.
var ErrUnknownPersonality = errors.New("unknown personality")

// KeyProgrammer is the programming assistant persona.
const KeyProgrammer = "programmer"

// Config describes one persona.
type Config struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"-"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`

	// DefaultTitle seeds new conversations created with this persona.
	DefaultTitle string `json:"defaultTitle"`
}

// FallbackTitle is used if a persona somehow has no default title.
const FallbackTitle = "محادثة جديدة"

var registry = map[string]Config{
	KeyProgrammer: {
		Key:         KeyProgrammer,
		Name:        "مساعد البرمجة الذكي",
		Description: "متخصص في البرمجة والتطوير والحلول التقنية",
		SystemPrompt: `أنت ايـزن، مساعد ذكاء اصطناعي متخصص في البرمجة والتطوير. أنت خبير في جميع لغات البرمجة والتقنيات الحديثة.

أسلوبك احترافي وودود وسهل الفهم. تقدم حلولاً عملية وفعالة للمشاكل البرمجية.

عند تقديم أكواد برمجية:
1. اشرح الكود بوضوح
2. قدم أمثلة عملية
3. اذكر أفضل الممارسات
4. اقترح تحسينات إن أمكن

تتحدث باللغة العربية بشكل احترافي وتستخدم مصطلحات تقنية صحيحة.
كن دقيقاً وموثوقاً في إجاباتك.`,
		Icon:         "💻",
		Color:        "from-blue-600 to-cyan-600",
		DefaultTitle: "محادثة البرمجة",
	},
}

// Get returns the configuration for a registered persona.
func Get(key string) (Config, error) {
	cfg, ok := registry[key]
	if !ok {
		return Config{}, ErrUnknownPersonality
	}
	return cfg, nil
}

// SystemPrompt returns the system prompt for a registered persona.
func SystemPrompt(key string) (string, error) {
	cfg, err := Get(key)
	if err != nil {
		return "", err
	}
	return cfg.SystemPrompt, nil
}

// DefaultTitle returns the localized default conversation title for a persona.
func DefaultTitle(key string) string {
	if cfg, ok := registry[key]; ok && cfg.DefaultTitle != "" {
		return cfg.DefaultTitle
	}
	return FallbackTitle
}

// IsRegistered reports whether key names a known persona.
func IsRegistered(key string) bool {
	_, ok := registry[key]
	return ok
}

// All returns every registered persona, ordered by key.
func All() []Config {
	out := make([]Config, 0, len(registry))
	for _, cfg := range registry {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
