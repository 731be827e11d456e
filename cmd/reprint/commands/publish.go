package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/viper"

	"github.com/jmylchreest/reprint/internal/logger"
	"github.com/jmylchreest/reprint/pkg/render/docs"
	"github.com/jmylchreest/reprint/pkg/render/wordpress"
	"github.com/jmylchreest/reprint/pkg/reprint"
)

var errNotConfigured = errors.New("publisher not configured")

// wordpressClient builds a client from the wordpress.* config keys.
func wordpressClient() (*wordpress.Client, error) {
	endpoint := viper.GetString("wordpress.endpoint")
	if endpoint == "" {
		return nil, fmt.Errorf("%w: set wordpress.endpoint", errNotConfigured)
	}
	return &wordpress.Client{
		Endpoint:   endpoint,
		User:       viper.GetString("wordpress.user"),
		Password:   viper.GetString("wordpress.password"),
		HTTPClient: &http.Client{Timeout: viper.GetDuration("wordpress.timeout")},
	}, nil
}

func publishWordPress(ctx context.Context, wp *wordpress.Renderer, res *reprint.Result) error {
	client, err := wordpressClient()
	if err != nil {
		return err
	}

	content, err := wp.Content(ctx, res.Document)
	if err != nil {
		return err
	}
	post, err := wordpress.NewPost(res.Metadata, content, viper.GetInt("wordpress.author"))
	if err != nil {
		return err
	}

	id, err := client.Publish(ctx, post)
	if err != nil {
		return err
	}
	logger.ForConversion(res.ID).Info("wordpress draft created", "post_id", id, "slug", post.Slug)
	logInfo("Published WordPress draft %d (%s)", id, post.Slug)
	return nil
}

// docsCredentials reads the docs.* config keys.
func docsCredentials() docs.Credentials {
	return docs.Credentials{
		ClientSecretFile: viper.GetString("docs.client_secret"),
		TokenFile:        viper.GetString("docs.token_file"),
	}
}

func publishDocs(ctx context.Context, d *docs.Renderer, res *reprint.Result) error {
	reqs, err := d.Requests(ctx, res.Document, res.Metadata)
	if err != nil {
		return err
	}

	svc, err := docs.NewService(ctx, docsCredentials())
	if err != nil {
		return err
	}
	id, err := docs.Publish(ctx, svc, res.Metadata.Title, reqs)
	if err != nil {
		return err
	}
	logger.ForConversion(res.ID).Info("google doc created", "document_id", id, "requests", len(reqs))
	logInfo("Published https://docs.google.com/document/d/%s/edit", id)
	return nil
}
