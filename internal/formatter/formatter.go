// package formatter renders catalog and history data as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

// Format names an output format accepted by the CLI.
type Format string

const (
	Text     Format = "text"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// ParseFormat validates a --format value. Empty means [Text].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Text, nil
	case Text, CSV, Markdown, JSON:
		return f, nil
	case "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, csv, markdown or json)", shared.ErrInvalidArgument, s)
	}
}

// MarshalJSON encodes data, indented when pretty is set.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// Tracks renders songs in the given format.
func Tracks(f Format, title string, tracks []models.Track, pretty bool) ([]byte, error) {
	switch f {
	case CSV:
		return TracksToCSV(tracks)
	case Markdown:
		return TracksToMarkdown(title, tracks)
	case JSON:
		return MarshalJSON(tracks, pretty)
	default:
		return TracksToText(title, tracks)
	}
}

// Albums renders albums in the given format.
func Albums(f Format, albums []models.Album, pretty bool) ([]byte, error) {
	switch f {
	case CSV:
		return AlbumsToCSV(albums)
	case Markdown:
		return AlbumsToMarkdown(albums)
	case JSON:
		return MarshalJSON(albums, pretty)
	default:
		return AlbumsToText(albums)
	}
}

// TracksToCSV converts tracks to CSV with columns: ID, Title, Album, Duration, File
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{t.ID, t.Title, t.Album, durationLabel(t), t.File})
	}
	return writeCSV([]string{"ID", "Title", "Album", "Duration", "File"}, rows)
}

// AlbumsToCSV converts albums to CSV with columns: ID, Name, Description, Colour, Image
func AlbumsToCSV(albums []models.Album) ([]byte, error) {
	rows := make([][]string, 0, len(albums))
	for _, a := range albums {
		rows = append(rows, []string{a.ID, a.Name, a.Desc, a.BgColour, a.Image})
	}
	return writeCSV([]string{"ID", "Name", "Description", "Colour", "Image"}, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// TracksToMarkdown converts tracks to a numbered Markdown list under a heading
func TracksToMarkdown(title string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	for i, t := range tracks {
		albumPart := ""
		if t.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", t.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s [%s]\n", i+1, t.Title, albumPart, durationLabel(t)))
	}
	return buf.Bytes(), nil
}

// AlbumsToMarkdown converts albums to Markdown sections with their artwork
func AlbumsToMarkdown(albums []models.Album) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Albums\n\n")
	for _, a := range albums {
		buf.WriteString(fmt.Sprintf("## %s\n\n", a.Name))
		if a.Image != "" {
			buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", a.Image))
		}
		if a.Desc != "" {
			buf.WriteString(fmt.Sprintf("%s\n\n", a.Desc))
		}
	}
	return buf.Bytes(), nil
}

// TracksToText converts tracks to plain text
func TracksToText(title string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, t := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, t.Title, orDash(t.Album), durationLabel(t)))
	}
	return buf.Bytes(), nil
}

// AlbumsToText converts albums to plain text
func AlbumsToText(albums []models.Album) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Albums: %d\n\n", len(albums)))
	for i, a := range albums {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, a.Name))
		if a.Desc != "" {
			buf.WriteString(fmt.Sprintf(" - %s", a.Desc))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// PlaysToText renders recent plays, newest first
func PlaysToText(plays []models.Play) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Recent plays: %d\n\n", len(plays)))
	for _, p := range plays {
		buf.WriteString(fmt.Sprintf("%s  %s - %s\n", p.PlayedAt.Local().Format("2006-01-02 15:04"), p.Title, orDash(p.Album)))
	}
	return buf.Bytes(), nil
}

// PlayCountsToText renders per-track play counts
func PlayCountsToText(counts []models.PlayCount) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Most played\n\n")
	for i, c := range counts {
		buf.WriteString(fmt.Sprintf("%d. %s (%d plays, last %s)\n", i+1, c.Title, c.Plays, c.LastPlayed.Local().Format("2006-01-02")))
	}
	return buf.Bytes(), nil
}

// durationLabel normalizes the track's duration metadata to m:ss, or "--:--" when missing.
func durationLabel(t models.Track) string {
	secs := t.Seconds()
	if !models.Known(secs) {
		return "--:--"
	}
	return models.ClockFromSeconds(secs).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
