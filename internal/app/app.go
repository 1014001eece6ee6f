// Package app implements the §4.7 UI reducer: the single bubbletea Model
// that owns every view the player shows (splash, result list, saved
// playlists, artist/genre/top/new-songs rollups, context view) and wires
// together the in-memory catalog, the search engine, the playback
// controller, and the active playlist. Grounded on the teacher's
// internal/app package (one Model, update.go's dispatch precedence,
// commands.go's tick/channel-drain helpers), generalized from waves' rich
// multi-navigator layout to Glaciera's single-list-plus-player-bar screen.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itspluxstahre/glaciera/internal/catalog"
	"github.com/itspluxstahre/glaciera/internal/config"
	"github.com/itspluxstahre/glaciera/internal/displaylist"
	"github.com/itspluxstahre/glaciera/internal/logging"
	"github.com/itspluxstahre/glaciera/internal/memcatalog"
	"github.com/itspluxstahre/glaciera/internal/playback"
	"github.com/itspluxstahre/glaciera/internal/playlist"
	"github.com/itspluxstahre/glaciera/internal/ripper"
	"github.com/itspluxstahre/glaciera/internal/scanner"
	"github.com/itspluxstahre/glaciera/internal/search"
	"github.com/itspluxstahre/glaciera/internal/tuneinfo"
	"github.com/itspluxstahre/glaciera/internal/ui/playerbar"
	"github.com/itspluxstahre/glaciera/internal/ui/popup"
)

// View names one of §4.7's named screens.
type View int

const (
	ViewSplash    View = iota // first draw only
	ViewResults               // default: current search/browse result list
	ViewQueue                 // F5 "show playlist": the active in-progress playlist
	ViewPlaylists             // F6/F12: saved playlist files on disk
	ViewArtists               // artist rollup
	ViewGenres                // genre rollup
	ViewTop                   // top list (history-derived)
	ViewNewSongs              // new-songs view
	ViewContext               // F4 context view, ±contextRadius around a track
)

// Options carries the player's §6.1 CLI flags into the Model.
type Options struct {
	NoReadAhead bool
}

// Model is the top-level bubbletea model (spec §4.7, C8).
type Model struct {
	cfg    *config.Config
	store  *catalog.Store
	cat    *memcatalog.Catalog
	rip    *ripper.List
	pb     *playback.Controller
	logger *logging.Logger
	opts   Options

	width, height int
	firstDraw     bool

	view     View
	prevView View
	list     *displaylist.List

	// search editor state (dispatch precedence's first stage).
	searchText  string
	searchMode  bool
	lastQuery   search.Query
	barcodeHint string

	sortToggle search.ToggleState
	sortMode   search.SortMode
	showFinish bool
	infoCol    infoColumn
	playerMode playerbar.DisplayMode

	activePlaylist *playlist.Playlist
	contextRadius  int
	contextCenter  *displaylist.Slot

	playlistFiles        []string
	playlistLoadOnEnter  bool
	newSongsWeeks        int

	popupActive popup.Popup
	popupKind   popupKind

	keyCount     int
	lastSpaceKey int
	sortToggleAt int
	lastF4Count  int
	lastF10Count int

	statusMsg string

	scanActive   bool
	scanProgress scanner.Progress
	scanStarted  time.Time
	scanCh       chan scanner.Progress
}

// infoColumn is the extra per-row field F1 cycles through.
type infoColumn int

const (
	InfoColNone infoColumn = iota
	InfoColBitrate
	InfoColGenre
	InfoColRating
	InfoColSize
	infoColCount
)

// popupKind distinguishes the modal currently overlaying the screen, since
// the generic popup.Popup interface alone doesn't tell the reducer what to
// do with the ResultMsg it produces.
type popupKind int

const (
	popupNone popupKind = iota
	popupScanReport
	popupSavePlaylist
	popupLoadPlaylist
	popupNewFolder
)

// New builds the reducer around an already-open catalog store and loaded
// in-memory catalog. cat, store, rip, and logger are shared with the
// binary's preflight setup (cmd/glaciera) so Init doesn't re-open anything.
func New(cfg *config.Config, store *catalog.Store, cat *memcatalog.Catalog, rip *ripper.List, logger *logging.Logger, opts Options) *Model {
	pb := playback.New(cfg.Players, config.PlaylistDir())

	return &Model{
		cfg:            cfg,
		store:          store,
		cat:            cat,
		rip:            rip,
		pb:             pb,
		logger:         logger,
		opts:           opts,
		firstDraw:      true,
		view:           ViewSplash,
		list:           displaylist.FromTracks(trackPointers(cat)),
		activePlaylist: playlist.New(),
		contextRadius:  20,
	}
}

// trackPointers exposes every catalog row as a *tuneinfo.Track for the
// initial unfiltered result list (an empty search string matches everything).
func trackPointers(cat *memcatalog.Catalog) []*tuneinfo.Track {
	all := cat.All()
	out := make([]*tuneinfo.Track, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out
}

// Init starts the 1Hz tick the spec's concurrency model requires (§5:
// "a 1Hz tick ... delivered to the UI thread as events equivalent to
// pseudo-keys").
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}
