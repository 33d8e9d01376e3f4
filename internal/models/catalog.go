package models

// Catalog is the ordered track collection for a session.
//
// Order is the server response order. A Catalog is never mutated element-wise;
// reloads build a new one with [NewCatalog].
type Catalog struct {
	tracks []Track
	index  map[string]int
}

// NewCatalog copies tracks into a new Catalog. When ids repeat, lookups resolve to the first occurrence.
func NewCatalog(tracks []Track) *Catalog {
	c := &Catalog{
		tracks: make([]Track, len(tracks)),
		index:  make(map[string]int, len(tracks)),
	}
	copy(c.tracks, tracks)
	for i, t := range c.tracks {
		if _, dup := c.index[t.ID]; !dup {
			c.index[t.ID] = i
		}
	}
	return c
}

// Len returns the number of tracks. A nil Catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tracks)
}

// IndexOf returns the position of the track with id, or -1.
func (c *Catalog) IndexOf(id string) int {
	if c == nil {
		return -1
	}
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// At returns the track at i, or false when i is out of range.
func (c *Catalog) At(i int) (Track, bool) {
	if c == nil || i < 0 || i >= len(c.tracks) {
		return Track{}, false
	}
	return c.tracks[i], true
}

// Find returns the track with id.
func (c *Catalog) Find(id string) (Track, bool) {
	return c.At(c.IndexOf(id))
}

// Tracks returns a copy of the tracks in catalog order.
func (c *Catalog) Tracks() []Track {
	if c == nil {
		return nil
	}
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// ByAlbum returns the tracks whose Album equals name, in catalog order.
func (c *Catalog) ByAlbum(name string) []Track {
	var out []Track
	for _, t := range c.Tracks() {
		if t.Album == name {
			out = append(out, t)
		}
	}
	return out
}
