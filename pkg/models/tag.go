package models

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tag is a single drink preference label such as "milk" or "bubble".
type Tag string

const (
	TagNoCoffee Tag = "nocoffee"
	TagJelly2   Tag = "jelly2"
	TagCoconut  Tag = "coconut"
	TagMilk     Tag = "milk"
	TagJelly    Tag = "jelly"
	TagBubble   Tag = "bubble"
	TagFruitTea Tag = "fruittea"
	TagBooba    Tag = "booba"
)

// TagInfo describes a vocabulary entry for presentation layers.
type TagInfo struct {
	Tag   Tag    `json:"tag"`
	Label string `json:"label"`
}

// vocabulary lists the preference boxes in dialog order.
var vocabulary = []TagInfo{
	{Tag: TagNoCoffee, Label: "Caffeine-free"},
	{Tag: TagJelly2, Label: "Fen guo (rice jelly)"},
	{Tag: TagCoconut, Label: "Coconut jelly"},
	{Tag: TagMilk, Label: "Milk"},
	{Tag: TagJelly, Label: "Tea jelly"},
	{Tag: TagBubble, Label: "Small pearls"},
	{Tag: TagFruitTea, Label: "Fruit tea"},
	{Tag: TagBooba, Label: "Large pearls"},
}

// Vocabulary returns a copy of the fixed tag vocabulary.
func Vocabulary() []TagInfo {
	out := make([]TagInfo, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// IsKnownTag reports whether t belongs to the fixed vocabulary.
func IsKnownTag(t Tag) bool {
	for _, info := range vocabulary {
		if info.Tag == t {
			return true
		}
	}
	return false
}

var tagFolder = cases.Fold()

// NormalizeTag trims, NFKC-normalizes and case-folds a raw tag string.
func NormalizeTag(raw string) Tag {
	cleaned := norm.NFKC.String(strings.TrimSpace(raw))
	return Tag(tagFolder.String(cleaned))
}

// TagSet is an unordered set of tags.
type TagSet map[Tag]struct{}

func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

func (s TagSet) Add(t Tag) {
	s[t] = struct{}{}
}

func (s TagSet) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

func (s TagSet) Len() int {
	return len(s)
}

// IsSubsetOf reports whether every tag in s is also in other.
// The empty set is a subset of every set.
func (s TagSet) IsSubsetOf(other TagSet) bool {
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted tags as plain strings.
func (s TagSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = string(t)
	}
	return out
}

// ParseTagList splits a comma separated list into a normalized tag set.
// Blank entries are ignored.
func ParseTagList(raw string) TagSet {
	set := NewTagSet()
	for _, part := range strings.Split(raw, ",") {
		if t := NormalizeTag(part); t != "" {
			set.Add(t)
		}
	}
	return set
}
