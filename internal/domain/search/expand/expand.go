// Package expand enriches queries with domain synonyms before they are embedded.
package expand

import "strings"

// maxSynonymsPerKey caps how many synonyms one matched concept contributes.
const maxSynonymsPerKey = 3

// Entry maps a domain concept to its synonyms.
type Entry struct {
	Key      string
	Synonyms []string
}

// DefaultDictionary is the crowd-safety and incident-response vocabulary.
// Order matters: expansion appends synonyms in dictionary order.
var DefaultDictionary = []Entry{
	{Key: "crowd", Synonyms: []string{"audience", "attendees", "spectators", "mass gathering", "people density"}},
	{Key: "surge", Synonyms: []string{"crush", "push", "stampede", "overcrowding"}},
	{Key: "evacuat", Synonyms: []string{"egress", "emergency exit", "clear the venue", "muster point"}},
	{Key: "medical", Synonyms: []string{"first aid", "paramedic", "ambulance", "casualty", "triage"}},
	{Key: "fire", Synonyms: []string{"smoke", "flames", "extinguisher", "alarm"}},
	{Key: "lost child", Synonyms: []string{"missing child", "separated minor", "reunification"}},
	{Key: "missing", Synonyms: []string{"lost person", "unaccounted", "search party"}},
	{Key: "accessib", Synonyms: []string{"wheelchair", "step-free", "disabled access", "ramp"}},
	{Key: "weather", Synonyms: []string{"storm", "lightning", "high winds", "heat"}},
	{Key: "security", Synonyms: []string{"stewards", "guards", "screening", "bag search"}},
	{Key: "barrier", Synonyms: []string{"fence", "crowd control", "pit barrier"}},
	{Key: "capacity", Synonyms: []string{"occupancy", "headcount", "density limit"}},
	{Key: "incident", Synonyms: []string{"emergency", "occurrence", "event log", "report"}},
	{Key: "gate", Synonyms: []string{"entrance", "entry point", "turnstile"}},
	{Key: "intoxicat", Synonyms: []string{"drunk", "alcohol", "substance"}},
	{Key: "fight", Synonyms: []string{"altercation", "assault", "disorder"}},
}

// Expander appends domain synonyms to a query.
type Expander struct {
	entries []Entry
}

// New creates an expander over the built-in dictionary followed by extra entries.
// Extra entries with an existing key extend that key's synonym list.
func New(extra ...Entry) *Expander {
	entries := make([]Entry, 0, len(DefaultDictionary)+len(extra))
	index := make(map[string]int, len(DefaultDictionary)+len(extra))
	for _, e := range append(append([]Entry{}, DefaultDictionary...), extra...) {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			entries[i].Synonyms = append(append([]string{}, entries[i].Synonyms...), e.Synonyms...)
			continue
		}
		index[key] = len(entries)
		entries = append(entries, Entry{Key: key, Synonyms: e.Synonyms})
	}
	return &Expander{entries: entries}
}

// Expand returns query with up to three synonyms appended for every dictionary key
// found as a substring of the lowercased query. Synonyms are deduplicated across keys.
// Without a match the query is returned unchanged.
func (e *Expander) Expand(query string) string {
	lower := strings.ToLower(query)

	var extra []string
	seen := make(map[string]struct{})
	for _, entry := range e.entries {
		if !strings.Contains(lower, entry.Key) {
			continue
		}
		added := 0
		for _, syn := range entry.Synonyms {
			if added == maxSynonymsPerKey {
				break
			}
			if _, dup := seen[syn]; dup {
				continue
			}
			seen[syn] = struct{}{}
			extra = append(extra, syn)
			added++
		}
	}

	if len(extra) == 0 {
		return query
	}
	return query + " " + strings.Join(extra, " ")
}
