package game

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Track is one playable entry in the library. Title is the display name;
// richer metadata is deliberately not modeled.
type Track struct {
	Title string
	Path  string
}

// LoopMode controls what happens when the playlist runs out.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopAll
	LoopOne
)

func (m LoopMode) String() string {
	switch m {
	case LoopAll:
		return "loop all"
	case LoopOne:
		return "loop one"
	default:
		return "loop off"
	}
}

// Playlist holds the track library and the traversal state: current track,
// shuffle permutation and loop mode.
type Playlist struct {
	tracks  []Track
	order   []int // permutation of track indices; identity when shuffle is off
	pos     int   // index into order; -1 before anything played
	shuffle bool
	loop    LoopMode
}

func NewPlaylist(tracks []Track) *Playlist {
	p := &Playlist{tracks: tracks, pos: -1}
	p.resetOrder()
	return p
}

func (p *Playlist) Len() int { return len(p.tracks) }

func (p *Playlist) Tracks() []Track { return p.tracks }

func (p *Playlist) Shuffle() bool { return p.shuffle }

func (p *Playlist) Loop() LoopMode { return p.loop }

// Current returns the active track, if any.
func (p *Playlist) Current() (Track, bool) {
	if p.pos < 0 || p.pos >= len(p.order) {
		return Track{}, false
	}
	return p.tracks[p.order[p.pos]], true
}

// CurrentIndex returns the library index of the active track, or -1.
func (p *Playlist) CurrentIndex() int {
	if p.pos < 0 || p.pos >= len(p.order) {
		return -1
	}
	return p.order[p.pos]
}

// Add appends a track to the library. Under shuffle it lands at a random
// still-unplayed slot so it gets a fair chance this cycle.
func (p *Playlist) Add(t Track) {
	p.tracks = append(p.tracks, t)
	idx := len(p.tracks) - 1
	if !p.shuffle || p.pos >= len(p.order)-1 {
		p.order = append(p.order, idx)
		return
	}
	at := p.pos + 1 + rand.Intn(len(p.order)-p.pos)
	p.order = append(p.order, 0)
	copy(p.order[at+1:], p.order[at:])
	p.order[at] = idx
}

// Select jumps straight to the track at library index i.
func (p *Playlist) Select(i int) (Track, bool) {
	if i < 0 || i >= len(p.tracks) {
		return Track{}, false
	}
	for oi, ti := range p.order {
		if ti == i {
			p.pos = oi
			return p.tracks[i], true
		}
	}
	return Track{}, false
}

// Next advances manually. At the end of the order it always wraps,
// reshuffling first when shuffle is on.
func (p *Playlist) Next() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	if p.pos+1 >= len(p.order) {
		if p.shuffle {
			p.reshuffle()
		}
		p.pos = 0
	} else {
		p.pos++
	}
	return p.tracks[p.order[p.pos]], true
}

// Prev steps back, wrapping at the start.
func (p *Playlist) Prev() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	if p.pos <= 0 {
		p.pos = len(p.order) - 1
	} else {
		p.pos--
	}
	return p.tracks[p.order[p.pos]], true
}

// NextAuto picks the track to play after the current one finishes on its
// own. Loop-one repeats the same track; loop-off stops at the end of the
// order instead of wrapping.
func (p *Playlist) NextAuto() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	if p.loop == LoopOne {
		return p.Current()
	}
	if p.pos+1 >= len(p.order) {
		if p.loop != LoopAll {
			return Track{}, false
		}
		if p.shuffle {
			p.reshuffle()
		}
		p.pos = 0
	} else {
		p.pos++
	}
	return p.tracks[p.order[p.pos]], true
}

// ToggleShuffle flips shuffle mode. The current track keeps playing and
// becomes the first entry of the new order.
func (p *Playlist) ToggleShuffle() {
	cur := p.CurrentIndex()
	p.shuffle = !p.shuffle
	if p.shuffle {
		p.reshuffle()
	} else {
		p.resetOrder()
		if cur >= 0 {
			p.pos = cur
		}
	}
	if p.shuffle && cur >= 0 {
		for oi, ti := range p.order {
			if ti == cur {
				p.order[0], p.order[oi] = p.order[oi], p.order[0]
				break
			}
		}
		p.pos = 0
	}
}

// CycleLoop steps off -> all -> one -> off.
func (p *Playlist) CycleLoop() LoopMode {
	p.loop = (p.loop + 1) % 3
	return p.loop
}

func (p *Playlist) resetOrder() {
	p.order = p.order[:0]
	for i := range p.tracks {
		p.order = append(p.order, i)
	}
}

func (p *Playlist) reshuffle() {
	p.resetOrder()
	rand.Shuffle(len(p.order), func(i, j int) {
		p.order[i], p.order[j] = p.order[j], p.order[i]
	})
}

// ScanTracks builds a library from the audio files directly inside dir.
// A missing or unreadable directory yields an empty library, not an error;
// the drawer can still add tracks one by one.
func ScanTracks(dir string) []Track {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var tracks []Track
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mp3", ".wav", ".flac":
			tracks = append(tracks, Track{
				Title: TrackTitle(e.Name()),
				Path:  filepath.Join(dir, e.Name()),
			})
		}
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Title < tracks[j].Title })
	return tracks
}

// TrackTitle derives a display title from a file name.
func TrackTitle(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
