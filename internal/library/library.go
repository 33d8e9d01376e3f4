// package library builds song and album lists from a directory of local audio files
package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/mewkiz/flac"
	"github.com/tcolgate/mp3"
)

const UnknownAlbum = "Unknown Album"

// colours are assigned to albums by id so a rescan keeps the same banner.
var colours = []string{"#2a4365", "#22543d", "#742a2a", "#553c9a", "#744210", "#234e52", "#702459", "#1a202c"}

// Options configures [Scan].
type Options struct {
	BaseURL string // prefix for each song's file URL; the path relative to the scanned directory is appended
	Logger  *log.Logger
}

// Scan walks dir and returns one track per supported audio file, in lexical path order, and the albums
// those tracks reference in first-seen order.
//
// Ids are derived from relative paths, so repeated scans of the same tree produce the same ids.
// Files whose tags or duration cannot be read are still listed, titled after the file name.
func Scan(dir string, opts Options) ([]models.Track, []models.Album, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	logger := shared.WithLogger(opts.Logger, "component", "library")

	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read library: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", shared.ErrInvalidArgument, dir)
	}

	base := strings.TrimRight(opts.BaseURL, "/")
	songs := []models.Track{}
	albums := []models.Album{}
	seen := map[string]bool{}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		t, artist := readTrack(path, logger)
		t.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("track:"+rel)).String()
		t.File = base + "/" + (&url.URL{Path: rel}).EscapedPath()
		songs = append(songs, t)

		if !seen[t.Album] {
			seen[t.Album] = true
			albums = append(albums, newAlbum(t.Album, artist))
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan library: %w", err)
	}

	logger.Info("library scanned", "dir", dir, "songs", len(songs), "albums", len(albums))
	return songs, albums, nil
}

// Supported reports whether path has an extension Scan reads.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".flac", ".wav":
		return true
	default:
		return false
	}
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp")
}

func newAlbum(name, artist string) models.Album {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("album:"+name))
	return models.Album{
		ID:       id.String(),
		Name:     name,
		Desc:     artist,
		BgColour: colours[int(id[0])%len(colours)],
	}
}

// readTrack fills title, album, artist and duration. ID and File are left to the caller.
func readTrack(path string, logger *log.Logger) (models.Track, string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t := models.Track{Title: name, Album: UnknownAlbum}
	var artist string

	if f, err := os.Open(path); err != nil {
		logger.Warn("failed to open audio file", "path", path, "error", err)
	} else {
		if m, err := tag.ReadFrom(f); err != nil {
			logger.Debug("no tags, using file name", "path", path, "error", err)
		} else {
			if m.Title() != "" {
				t.Title = m.Title()
			}
			if m.Album() != "" {
				t.Album = m.Album()
			}
			artist = m.Artist()
		}
		f.Close()
	}

	d, err := Duration(path)
	if err != nil {
		logger.Warn("failed to read duration", "path", path, "error", err)
		return t, artist
	}
	t.Duration = models.ClockFromSeconds(d.Seconds()).String()
	return t, artist
}

// Duration reads the playing time of an mp3, flac or wav file.
func Duration(path string) (time.Duration, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return durationMP3(path)
	case ".flac":
		return durationFLAC(path)
	case ".wav":
		return durationWAV(path)
	default:
		return 0, fmt.Errorf("%w: unsupported format %s", shared.ErrInvalidArgument, ext)
	}
}

// durationMP3 sums frame durations. A file with no decodable frame is an error.
func durationMP3(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := mp3.NewDecoder(f)
	var (
		total   time.Duration
		frames  int
		skipped int
	)
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) || frames > 0 {
				break
			}
			return 0, fmt.Errorf("failed to decode mp3 frame: %w", err)
		}
		total += fr.Duration()
		frames++
	}
	if frames == 0 {
		return 0, fmt.Errorf("%w: no mp3 frames", shared.ErrInvalidInput)
	}
	return total, nil
}

// durationFLAC uses the STREAMINFO block.
func durationFLAC(path string) (time.Duration, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to parse flac: %w", err)
	}
	defer stream.Close()

	si := stream.Info
	if si.NSamples == 0 || si.SampleRate == 0 {
		return 0, fmt.Errorf("%w: flac stream missing sample info", shared.ErrInvalidInput)
	}
	return time.Duration(float64(si.NSamples) / float64(si.SampleRate) * float64(time.Second)), nil
}

// durationWAV reads the size of the data chunk, skipping LIST, fact and other chunks before it.
func durationWAV(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%w: invalid wav file", shared.ErrInvalidInput)
	}

	frameBytes := int64(dec.BitDepth/8) * int64(dec.NumChans)
	if dec.SampleRate == 0 || frameBytes <= 0 {
		return 0, fmt.Errorf("%w: invalid wav header", shared.ErrInvalidInput)
	}

	if err := dec.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("%w: wav data chunk: %v", shared.ErrInvalidInput, err)
	}
	frames := dec.PCMLen() / frameBytes
	seconds := float64(frames) / float64(dec.SampleRate)
	return time.Duration(seconds * float64(time.Second)), nil
}
