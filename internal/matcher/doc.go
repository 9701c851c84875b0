// Package matcher implements the scoring pipeline that maps a noisy video
// title/channel/duration tuple onto a destination catalog track.
//
// The pipeline is built leaf-first:
//   - [CleanTitle] and [ExtractArtist] strip platform noise from raw titles
//   - [TitleSimilarity], [StringSimilarity], [CompareArtists], [CompareDurations],
//     [CompareReleaseDates] and [ReleaseDateBonus] are pure heuristic scorers
//   - [DetectVersion] classifies live/remix/cover/acoustic variants
//   - [SelectBestMatch] combines the scorers into a weighted confidence and
//     picks the best candidate, with a degraded fallback path when no AI
//     extraction details are available
//
// Scorer thresholds are intentionally heuristic rather than statistically
// calibrated; the exact breakpoints are the contract and are pinned by tests.
package matcher
