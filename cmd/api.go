package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/jukebox/internal/services"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the catalog backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}
	return r.write(append(resp.Body, '\n'))
}

type apiDump struct {
	Health any               `json:"health"`
	Songs  any               `json:"songs,omitempty"`
	Albums any               `json:"albums,omitempty"`
	Errors []map[string]string `json:"errors,omitempty"`
}

// APIDump fetches health and both catalog lists and prints them as one JSON document.
//
// Failing endpoints are reported in the errors field instead of aborting the dump.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("dumping API state", "base_url", r.api.BaseURL())

	dump := apiDump{}
	for _, endpoint := range []struct {
		path string
		dst  *any
	}{
		{"/health", &dump.Health},
		{services.SongListPath, &dump.Songs},
		{services.AlbumListPath, &dump.Albums},
	} {
		resp, err := r.api.Get(ctx, endpoint.path)
		switch {
		case err != nil:
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			err = fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
		case !resp.IsJSON:
			err = fmt.Errorf("%w: response is not JSON", shared.ErrAPIRequest)
		default:
			*endpoint.dst = resp.JSONData
			continue
		}

		r.logger.Warn("failed to fetch endpoint", "path", endpoint.path, "error", err)
		dump.Errors = append(dump.Errors, map[string]string{"endpoint": endpoint.path, "error": err.Error()})
	}

	return r.writeJSON(dump, cmd.Bool("pretty"))
}
