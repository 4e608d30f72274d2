package googleDriveApi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/KotFed0t/finfusion/config"
	"github.com/KotFed0t/finfusion/utils"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const viewLinkTemplate = "https://drive.google.com/file/d/%s/view"

// GoogleDriveApi stores exported statements and shares them read-only by link.
type GoogleDriveApi struct {
	srv     *drive.Service
	fileTTL time.Duration
	now     func() time.Time
}

func New(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*GoogleDriveApi, error) {
	if cfg.GoogleDrive.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleDrive.CredentialsFile))
	}

	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &GoogleDriveApi{srv: srv, fileTTL: cfg.GoogleDrive.FileTTL, now: time.Now}, nil
}

func (a *GoogleDriveApi) UploadFile(ctx context.Context, reader io.Reader, filename string) (link string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.UploadFile"

	slog.Debug("UploadFile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("filename", filename))

	uploaded, err := a.srv.Files.
		Create(&drive.File{Name: filename, MimeType: mime.TypeByExtension(filepath.Ext(filename))}).
		Media(reader).
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("failed on uploading file to google drive", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	_, err = a.srv.Permissions.
		Create(uploaded.Id, &drive.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("failed on sharing uploaded file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	slog.Debug("UploadFile completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("fileID", uploaded.Id))

	return fmt.Sprintf(viewLinkTemplate, uploaded.Id), nil
}

// DeleteOldFiles removes statements older than the configured TTL and empties the trash.
func (a *GoogleDriveApi) DeleteOldFiles(ctx context.Context) (deleted int, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.DeleteOldFiles"

	slog.Debug("DeleteOldFiles start", slog.String("rqID", rqID), slog.String("op", op))

	list, err := a.srv.Files.List().Fields("files(id, createdTime)").Context(ctx).Do()
	if err != nil {
		slog.Error("failed on listing files", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	threshold := a.now().Add(-a.fileTTL)
	for _, f := range list.Files {
		if !Expired(f.CreatedTime, threshold) {
			continue
		}
		if err := a.srv.Files.Delete(f.Id).Context(ctx).Do(); err != nil {
			slog.Error("failed delete file", slog.String("rqID", rqID), slog.String("op", op), slog.String("fileID", f.Id), slog.String("err", err.Error()))
			continue
		}
		deleted++
	}

	if err := a.srv.Files.EmptyTrash().Context(ctx).Do(); err != nil {
		slog.Error("failed empty trash", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	slog.Info("delete old files done", slog.String("rqID", rqID), slog.Int("deletedFiles", deleted), slog.Int("remainingFiles", len(list.Files)-deleted))

	return deleted, nil
}

// Expired reports whether a file created at createdTime (RFC3339) is older than threshold.
// Unparsable timestamps are kept.
func Expired(createdTime string, threshold time.Time) bool {
	created, err := time.Parse(time.RFC3339, createdTime)
	if err != nil {
		return false
	}
	return created.Before(threshold)
}
