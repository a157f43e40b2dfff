package summarizer

import (
	"sort"
	"strings"

	"website-intel/internal/models"
)

// Merge folds a model proposal over extracted signals. Contact sets are
// unioned so a proposal can add but never remove; narrative fields come
// from the proposal verbatim. A nil proposal yields a record built purely
// from the signals.
func Merge(proposal *models.StructuredRecord, signals models.ContactSignals, website string, sources []string) *models.StructuredRecord {
	rec := &models.StructuredRecord{Website: website}
	if proposal != nil {
		rec.CompanyName = proposal.CompanyName
		rec.Summary = proposal.Summary
		rec.Notes = proposal.Notes
	}

	var proposedEmails, proposedPhones, proposedAddresses, proposedSources []string
	var proposedSocials []models.SocialLink
	if proposal != nil {
		proposedEmails = proposal.Emails
		proposedPhones = proposal.PhoneNumbers
		proposedAddresses = proposal.Addresses
		proposedSocials = proposal.Socials
		proposedSources = proposal.Sources
	}

	rec.Sources = unionSorted(sources, proposedSources)
	rec.Emails = unionSorted(signals.Emails, lowercaseAll(proposedEmails))
	rec.PhoneNumbers = unionSorted(signals.PhoneDisplays(), proposedPhones)
	rec.Addresses = unionSorted(signals.Addresses, proposedAddresses)
	rec.Socials = mergeSocials(signals.Socials, proposedSocials)
	return rec
}

func unionSorted(groups ...[]string) []string {
	set := map[string]struct{}{}
	for _, group := range groups {
		for _, s := range group {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			set[s] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func lowercaseAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// mergeSocials unions by URL. When both sides carry the same URL the
// proposal's platform label wins, since the model sees surrounding context
// the regexes do not.
func mergeSocials(extracted, proposed []models.SocialLink) []models.SocialLink {
	index := map[string]int{}
	var out []models.SocialLink
	for _, s := range extracted {
		key := strings.ToLower(strings.TrimSpace(s.URL))
		if key == "" {
			continue
		}
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	for _, s := range proposed {
		key := strings.ToLower(strings.TrimSpace(s.URL))
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			if s.Platform != "" {
				out[i].Platform = s.Platform
			}
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}
