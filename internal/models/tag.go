// ABOUTME: Tag helpers for categorizing courses.
// ABOUTME: Normalizes tag names to lowercase with trimmed whitespace.

package models

import "strings"

type Tag struct {
	Name  string
	Count int
}

// NewTag normalizes name and pairs it with a usage count.
func NewTag(name string, count int) Tag {
	return Tag{
		Name:  NormalizeTag(name),
		Count: count,
	}
}

// NormalizeTag lowercases and trims a tag name.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseTags splits a comma-separated list, dropping blanks. Case is preserved.
func ParseTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
