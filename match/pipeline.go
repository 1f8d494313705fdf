package match

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Acceptance policy thresholds. One consistent set: at or below
// RejectThreshold the best candidate is hopeless; between the two the user
// is asked only when the artist gate corroborates; at or above
// AcceptThreshold the candidate is accepted unless a corroboration gate
// objects (year failure rejects, artist failure asks).
const (
	AcceptThreshold = 0.6
	RejectThreshold = 0.5

	// ArtistGateSimilarity is the Jaro-Winkler floor a credited artist must
	// clear against the query artist for the corroboration gate to pass.
	ArtistGateSimilarity = 0.7

	// YearGateTolerance is the allowed release-year drift when both the
	// query and the candidate carry a year.
	YearGateTolerance = 1

	// TitleSearchLimit caps the title-only fuzzy search result set.
	TitleSearchLimit = 10

	titleWeight    = 0.7
	durationWeight = 0.3
)

// Resolver runs the match resolution pipeline: up to three search strategies
// in sequence, candidate scoring, and the accept/confirm/reject policy.
type Resolver struct {
	catalog   Catalog
	confirmer Confirmer
	debug     bool
}

// NewResolver creates a resolver over the given catalog. The confirmer is
// consulted for ambiguous matches.
func NewResolver(catalog Catalog, confirmer Confirmer) *Resolver {
	return &Resolver{catalog: catalog, confirmer: confirmer}
}

// SetDebug enables per-candidate score logging.
func (r *Resolver) SetDebug(debug bool) {
	r.debug = debug
}

// Resolve attempts to match the query against the catalog. It returns nil
// (and no error) when nothing matched: transport failures are logged and
// absorbed, never surfaced to the caller.
func (r *Resolver) Resolve(ctx context.Context, query Query) (*ResolvedTrack, error) {
	strategies := []struct {
		name string
		fn   func(context.Context, Query) (*Candidate, error)
	}{
		{"exact fields", r.searchExact},
		{"alternate artist credits", r.searchAlternateArtists},
		{"title-only fuzzy", r.searchByTitle},
	}

	for _, strategy := range strategies {
		candidate, err := strategy.fn(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("❌ resolve: %s search failed: %v", strategy.name, err)
			continue
		}
		if candidate != nil {
			log.Printf("✅ resolve: matched '%s' by %s using %s search",
				candidate.Title, strings.Join(candidate.ArtistNames, ", "), strategy.name)
			return r.buildResolvedTrack(ctx, candidate), nil
		}
		r.debugLog("resolve: no result from %s search", strategy.name)
	}

	log.Printf("❌ resolve: no match for '%s' by '%s'", query.RawTitle, query.RawArtist)
	return nil, nil
}

// searchExact queries the catalog with structured title/artist/year filters
// and accepts the single top hit unconditionally: the filters already
// constrain the field, so no scoring is applied.
func (r *Resolver) searchExact(ctx context.Context, query Query) (*Candidate, error) {
	title := NormalizeTrackName(query.RawTitle)
	if title == "" {
		return nil, nil
	}
	artist := NormalizeArtistName(query.RawArtist)
	return r.catalog.FindTrack(ctx, title, artist, query.Year)
}

// searchAlternateArtists retries the exact-field search once per alternate
// credited artist when the raw credit line names more than one.
func (r *Resolver) searchAlternateArtists(ctx context.Context, query Query) (*Candidate, error) {
	credits := SplitArtistCredits(query.RawArtist)
	if len(credits) < 2 {
		return nil, nil
	}

	title := NormalizeTrackName(query.RawTitle)
	if title == "" {
		return nil, nil
	}

	for _, credit := range credits[1:] {
		artist := NormalizeArtistName(credit)
		if artist == "" {
			continue
		}
		r.debugLog("searchAlternateArtists: retrying with artist '%s'", artist)
		candidate, err := r.catalog.FindTrack(ctx, title, artist, query.Year)
		if err != nil {
			return nil, err
		}
		if candidate != nil {
			return candidate, nil
		}
	}
	return nil, nil
}

// searchByTitle runs the title-only fuzzy search: a wide result set scored
// candidate by candidate, with an exact normalized-title short circuit.
func (r *Resolver) searchByTitle(ctx context.Context, query Query) (*Candidate, error) {
	title := NormalizeTrackName(query.RawTitle)
	if title == "" {
		return nil, nil
	}

	candidates, err := r.catalog.SearchTracks(ctx, title, TitleSearchLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// An exact normalized-title match skips scoring entirely.
	for i := range candidates {
		if NormalizeTrackName(candidates[i].Title) == title {
			r.debugLog("searchByTitle: exact normalized title match '%s'", candidates[i].Title)
			return &candidates[i], nil
		}
	}

	var best *ScoredCandidate
	for _, candidate := range candidates {
		scored := r.scoreCandidate(title, query.DurationSeconds, candidate)
		r.debugLog("searchByTitle: '%s' by %s -> text %.3f, duration %.3f, combined %.3f",
			scored.Candidate.Title, strings.Join(scored.Candidate.ArtistNames, ", "),
			scored.TextScore, scored.DurationScore, scored.CombinedScore)
		if best == nil || scored.CombinedScore > best.CombinedScore {
			s := scored
			best = &s
		}
	}

	return r.applyAcceptancePolicy(query, best), nil
}

func (r *Resolver) scoreCandidate(normalizedTitle string, duration float64, candidate Candidate) ScoredCandidate {
	text := TextSimilarity(normalizedTitle, candidate.Title)
	dur := DurationSimilarity(duration, candidate.DurationSeconds)
	return ScoredCandidate{
		Candidate:     candidate,
		TextScore:     text,
		DurationScore: dur,
		CombinedScore: text*titleWeight + dur*durationWeight,
	}
}

// applyAcceptancePolicy turns the best scored candidate into an accepted
// candidate, a confirmation prompt, or a rejection.
func (r *Resolver) applyAcceptancePolicy(query Query, best *ScoredCandidate) *Candidate {
	if best == nil {
		return nil
	}

	score := best.CombinedScore
	if score <= RejectThreshold {
		log.Printf("❌ searchByTitle: best score %.3f is below %.2f, rejecting", score, RejectThreshold)
		return nil
	}

	artistOK := r.artistGatePasses(query.RawArtist, best.Candidate)

	if score < AcceptThreshold {
		// Failed the primary gate but not hopeless: ask, but only when the
		// artist credit corroborates the near miss.
		if !artistOK {
			log.Printf("❌ searchByTitle: near miss %.3f without artist corroboration, rejecting", score)
			return nil
		}
		return r.confirmCandidate(best.Candidate, score)
	}

	if !r.yearGatePasses(query.Year, best.Candidate) {
		log.Printf("❌ searchByTitle: '%s' scored %.3f but release year %d is too far from %s, rejecting",
			best.Candidate.Title, score, best.Candidate.ReleaseYear, query.Year)
		return nil
	}

	if !artistOK {
		return r.confirmCandidate(best.Candidate, score)
	}

	log.Printf("✅ searchByTitle: accepting '%s' (score %.3f)", best.Candidate.Title, score)
	return &best.Candidate
}

func (r *Resolver) confirmCandidate(candidate Candidate, score float64) *Candidate {
	prompt := fmt.Sprintf("🎵 Closest match: '%s' by %s. Use it? [Y/n] ",
		candidate.Title, strings.Join(candidate.ArtistNames, ", "))
	if r.confirmer.Confirm(prompt) {
		log.Printf("✅ searchByTitle: user confirmed '%s' (score %.3f)", candidate.Title, score)
		return &candidate
	}
	log.Printf("❌ searchByTitle: user declined '%s'", candidate.Title)
	return nil
}

// artistGatePasses checks whether any credited artist on the candidate is
// close enough to the query's artist name.
func (r *Resolver) artistGatePasses(rawArtist string, candidate Candidate) bool {
	queryArtist := strings.ToLower(NormalizeArtistName(rawArtist))
	if queryArtist == "" {
		return false
	}
	for _, name := range candidate.ArtistNames {
		candidateArtist := strings.ToLower(NormalizeArtistName(name))
		if candidateArtist == "" {
			continue
		}
		similarity := float64(edlib.JaroWinklerSimilarity(queryArtist, candidateArtist))
		if similarity > ArtistGateSimilarity {
			return true
		}
	}
	return false
}

// yearGatePasses only constrains when both sides carry a usable year.
func (r *Resolver) yearGatePasses(year string, candidate Candidate) bool {
	if year == "" || candidate.ReleaseYear == 0 {
		return true
	}
	queryYear, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return true
	}
	diff := queryYear - candidate.ReleaseYear
	if diff < 0 {
		diff = -diff
	}
	return diff <= YearGateTolerance
}

// buildResolvedTrack assembles the accepted output: album art picked by
// release type, then one sequential catalog lookup per credited artist for
// its image. A failed lookup keeps the credit with its name only.
func (r *Resolver) buildResolvedTrack(ctx context.Context, candidate *Candidate) *ResolvedTrack {
	albumArt := candidate.AlbumThumbnailURL
	if candidate.IsSingleRelease && candidate.ThumbnailURL != "" {
		albumArt = candidate.ThumbnailURL
	}

	track := &ResolvedTrack{
		Title:       candidate.Title,
		ReleaseYear: candidate.ReleaseYear,
		Album: Album{
			Name:            candidate.AlbumName,
			ThumbnailURL:    albumArt,
			IsSingleRelease: candidate.IsSingleRelease,
		},
	}

	for i, name := range candidate.ArtistNames {
		artist := Artist{Name: name}
		if i < len(candidate.ArtistIDs) && candidate.ArtistIDs[i] != "" {
			details, err := r.catalog.GetArtist(ctx, candidate.ArtistIDs[i])
			if err != nil {
				log.Printf("⚠️  resolve: artist lookup for '%s' failed: %v", name, err)
			} else if details != nil {
				artist = *details
				if artist.Name == "" {
					artist.Name = name
				}
			}
		}
		track.Artists = append(track.Artists, artist)
	}

	return track
}

func (r *Resolver) debugLog(format string, args ...interface{}) {
	if r.debug {
		log.Printf(format, args...)
	}
}
