package structured

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// PhraseBank supplies the opener and closer that wrap a voice message.
type PhraseBank interface {
	Opener() string
	Closer() string
}

var defaultOpeners = []string{
	"Listen up.",
	"Here's the truth.",
	"Let's be real.",
	"Enough thinking, time to act.",
	"No more waiting.",
}

var defaultClosers = []string{
	"No excuses, start now.",
	"Do it today, not tomorrow.",
	"You know what to do. Go.",
	"Stop waiting and move.",
	"Action beats overthinking. Go.",
}

// RandomBank picks a random phrase from each list on every call.
type RandomBank struct {
	Openers []string `yaml:"openers"`
	Closers []string `yaml:"closers"`
}

// NewRandomBank returns a bank with the built-in tough-love phrases.
func NewRandomBank() *RandomBank {
	return &RandomBank{Openers: defaultOpeners, Closers: defaultClosers}
}

func (b *RandomBank) Opener() string { return pick(b.Openers) }
func (b *RandomBank) Closer() string { return pick(b.Closers) }

func pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[rand.IntN(len(list))]
}

// FixedBank always returns the same phrases.
type FixedBank struct {
	OpenerText string
	CloserText string
}

func (b FixedBank) Opener() string { return b.OpenerText }
func (b FixedBank) Closer() string { return b.CloserText }

// LoadPhraseBank reads a YAML file with "openers" and "closers" lists.
func LoadPhraseBank(path string) (*RandomBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrase bank: %w", err)
	}

	var bank RandomBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse phrase bank %s: %w", path, err)
	}
	if len(bank.Openers) == 0 || len(bank.Closers) == 0 {
		return nil, errors.New("phrase bank needs at least one opener and one closer")
	}
	return &bank, nil
}
