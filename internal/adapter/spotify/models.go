package spotify

// Wire types mirror the subset of the Spotify Web API JSON the adapter reads.

type wireImage struct {
	URL string `json:"url"`
}

type wireArtist struct {
	Name string `json:"name"`
}

type wireAlbum struct {
	Name   string      `json:"name"`
	Images []wireImage `json:"images"`
}

type wireTrack struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	DurationMs int64        `json:"duration_ms"`
	Album      wireAlbum    `json:"album"`
	Artists    []wireArtist `json:"artists"`
}

// currentlyPlayingResponse is the body of GET /me/player/currently-playing.
// Item is null when the playback type carries no track data.
type currentlyPlayingResponse struct {
	Item       *wireTrack `json:"item"`
	ProgressMs int64      `json:"progress_ms"`
	IsPlaying  bool       `json:"is_playing"`
}

// profileResponse is the body of GET /me.
type profileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Profile identifies the authenticated streaming account.
type Profile struct {
	ID          string
	DisplayName string
}
