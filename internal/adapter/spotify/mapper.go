package spotify

import (
	"github.com/tunetrace/tunetrace/internal/domain"
)

// mapTrackToDomain converts a wire track into the domain model.
// Artist names keep their catalog order; the first album image is taken as
// the artwork reference (the API lists the largest first).
func mapTrackToDomain(t wireTrack) domain.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	var artURL string
	if len(t.Album.Images) > 0 {
		artURL = t.Album.Images[0].URL
	}

	return domain.Track{
		ID:          t.ID,
		Title:       t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		AlbumArtURL: artURL,
		DurationMs:  t.DurationMs,
	}
}
