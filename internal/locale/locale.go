package locale

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/vukan322/profilecard/internal/lookup"
)

const DefaultKey = "en"

// FieldCount is the number of translatable fields in a Locale, RTL included.
const FieldCount = 16

//go:embed locales.yaml
var builtinLocales []byte

// Locale holds the card labels for one language. TitleCard may contain a
// {name} placeholder. A nil RTL means the locale does not say.
type Locale struct {
	TitleCard                   string `yaml:"titleCard"`
	TotalReposText              string `yaml:"totalReposText"`
	StarsCountText              string `yaml:"starsCountText"`
	ForksCountText              string `yaml:"forksCountText"`
	CommitsCountText            string `yaml:"commitsCountText"`
	TotalPRText                 string `yaml:"totalPRText"`
	TotalPRMergedText           string `yaml:"totalPRMergedText"`
	TotalPRReviewedText         string `yaml:"totalPRReviewedText"`
	TotalIssuesText             string `yaml:"totalIssuesText"`
	TotalIssuesClosedText       string `yaml:"totalIssuesClosedText"`
	TotalDiscussionStartedText  string `yaml:"totalDiscussionStartedText"`
	TotalDiscussionAnsweredText string `yaml:"totalDiscussionAnsweredText"`
	ContributedToText           string `yaml:"contributedToText"`
	FollowersText               string `yaml:"followersText"`
	FollowingText               string `yaml:"followingText"`
	RTL                         *bool  `yaml:"rtlDirection"`
}

func (l Locale) Fallback(def Locale) Locale {
	fill := func(s *string, d string) {
		if *s == "" {
			*s = d
		}
	}
	fill(&l.TitleCard, def.TitleCard)
	fill(&l.TotalReposText, def.TotalReposText)
	fill(&l.StarsCountText, def.StarsCountText)
	fill(&l.ForksCountText, def.ForksCountText)
	fill(&l.CommitsCountText, def.CommitsCountText)
	fill(&l.TotalPRText, def.TotalPRText)
	fill(&l.TotalPRMergedText, def.TotalPRMergedText)
	fill(&l.TotalPRReviewedText, def.TotalPRReviewedText)
	fill(&l.TotalIssuesText, def.TotalIssuesText)
	fill(&l.TotalIssuesClosedText, def.TotalIssuesClosedText)
	fill(&l.TotalDiscussionStartedText, def.TotalDiscussionStartedText)
	fill(&l.TotalDiscussionAnsweredText, def.TotalDiscussionAnsweredText)
	fill(&l.ContributedToText, def.ContributedToText)
	fill(&l.FollowersText, def.FollowersText)
	fill(&l.FollowingText, def.FollowingText)
	if l.RTL == nil {
		l.RTL = def.RTL
	}
	return l
}

// IsRTL reports whether text in this locale runs right to left.
func (l Locale) IsRTL() bool {
	return l.RTL != nil && *l.RTL
}

// Completion returns the share of translated fields as a percentage.
func (l Locale) Completion() float64 {
	set := 0
	for _, s := range []string{
		l.TitleCard, l.TotalReposText, l.StarsCountText, l.ForksCountText,
		l.CommitsCountText, l.TotalPRText, l.TotalPRMergedText, l.TotalPRReviewedText,
		l.TotalIssuesText, l.TotalIssuesClosedText, l.TotalDiscussionStartedText,
		l.TotalDiscussionAnsweredText, l.ContributedToText, l.FollowersText, l.FollowingText,
	} {
		if s != "" {
			set++
		}
	}
	if l.RTL != nil {
		set++
	}
	return float64(set) / FieldCount * 100
}

type Table = lookup.Table[Locale]

// NormalizeKey canonicalizes BCP 47 tags, so "pt_BR" and "PT-br" both
// become "pt-br". Keys that are not valid tags are only lower-cased.
func NormalizeKey(key string) string {
	k := lookup.NormalizeKey(key)
	if k == "" {
		return k
	}
	tag, err := language.Parse(k)
	if err != nil {
		return k
	}
	return strings.ToLower(tag.String())
}

// Parse decodes a YAML document mapping locale codes to locales.
func Parse(data []byte) (Table, error) {
	var entries map[string]Locale
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return Table{}, fmt.Errorf("decode locales: %w", err)
	}
	def, ok := entries[DefaultKey]
	if !ok {
		return Table{}, fmt.Errorf("locales: missing %q entry", DefaultKey)
	}
	if def.Completion() < 100 {
		return Table{}, fmt.Errorf("locales: %q entry is incomplete", DefaultKey)
	}
	return lookup.New(entries, DefaultKey, lookup.WithNormalizer[Locale](NormalizeKey)), nil
}

// Resolve picks the locale for key, trying the base language when the full
// tag is unknown ("es-MX" resolves to "es" when only "es" exists).
func Resolve(t Table, key string) Locale {
	return t.Resolve(Match(t, key))
}

// Match returns the table key that Resolve would use for key. Unknown keys
// are returned as the default key.
func Match(t Table, key string) string {
	if _, ok := t.Lookup(key); ok {
		return NormalizeKey(key)
	}
	tag, err := language.Parse(lookup.NormalizeKey(key))
	if err == nil {
		base, _ := tag.Base()
		if _, ok := t.Lookup(base.String()); ok {
			return NormalizeKey(base.String())
		}
	}
	return t.DefaultKey()
}

var (
	builtinOnce  sync.Once
	builtinTable Table
)

// Builtin returns the locales shipped with the binary.
func Builtin() Table {
	builtinOnce.Do(func() {
		t, err := Parse(builtinLocales)
		if err != nil {
			panic(err)
		}
		builtinTable = t
	})
	return builtinTable
}
