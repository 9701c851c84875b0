// Package models defines domain entities for the playlist conversion service.
//
// The package contains lightweight data transfer objects:
//   - [Song] : A video-derived source item, with destination catalog fields attached once matched
//   - [Candidate] : A destination catalog search result under evaluation against a Song
//   - [Playlist] : Basic playlist metadata
//   - [ConversionResult] : Summary of a full conversion run
//
// Songs are created once per playlist extraction; match fields are attached
// in place during the matching phase and may be further mutated by manual
// approval or replacement. Failed matches simply leave the Spotify fields empty.
package models
