package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/wingera/schematic-material-viewer/internal/formatter"
	"github.com/wingera/schematic-material-viewer/internal/models"
	"github.com/wingera/schematic-material-viewer/internal/repositories"
	"github.com/wingera/schematic-material-viewer/internal/shared"
)

// FilesList prints the stored documents, either the current user's or
// everyone's with --all.
func (r *Runner) FilesList(ctx context.Context, cmd *cli.Command) error {
	var files []models.FileInfo
	var err error

	if cmd.Bool("all") {
		files, err = r.api.AllFiles(ctx)
	} else {
		files, err = r.api.FileList(ctx)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(files, cmd.Bool("pretty"))
	}

	if len(files) == 0 {
		return r.writePlain("No documents found\n")
	}

	for _, file := range files {
		line := fmt.Sprintf("%-40s %10s", file.Filename, formatter.FormatFileSize(file.Size))
		if file.Owner != "" {
			line = fmt.Sprintf("%s  %s", line, file.Owner)
		}
		if file.CreatedAt != "" {
			line = fmt.Sprintf("%s  %s", line, formatter.FormatDate(file.CreatedAt))
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// FilesUpload validates and uploads a local CSV or STI file.
func (r *Runner) FilesUpload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	filename := filepath.Base(path)
	r.logger.Info("uploading", "filename", filename, "size", info.Size())

	result, err := r.api.Upload(ctx, filename, info.Size(), file, cmd.String("description"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Uploaded %s (%d rows)\n", result.Filename, len(result.Data))
	return nil
}

// FilesShow prints a stored document's material table.
func (r *Runner) FilesShow(ctx context.Context, cmd *cli.Command) error {
	filename := cmd.StringArg("filename")
	if filename == "" {
		return fmt.Errorf("%w: filename", shared.ErrMissingArgument)
	}

	rows, err := r.api.OpenFile(ctx, filename)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	text, err := formatter.ExportToText(filename, rows)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// FilesExport writes a stored document to a local CSV file.
func (r *Runner) FilesExport(ctx context.Context, cmd *cli.Command) error {
	filename := cmd.StringArg("filename")
	if filename == "" {
		return fmt.Errorf("%w: filename", shared.ErrMissingArgument)
	}

	rows, err := r.api.OpenFile(ctx, filename)
	if err != nil {
		return err
	}

	path, err := formatter.WriteCSVExport(filename, rows, cmd.String("output"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Exported %d rows to %s\n", len(rows), path)
}

// FilesDelete removes a stored document from the service.
func (r *Runner) FilesDelete(ctx context.Context, cmd *cli.Command) error {
	filename := cmd.StringArg("filename")
	if filename == "" {
		return fmt.Errorf("%w: filename", shared.ErrMissingArgument)
	}

	message, err := r.api.DeleteFile(ctx, filename)
	if err != nil {
		return err
	}

	if message == "" {
		message = fmt.Sprintf("deleted %s", filename)
	}
	return r.writePlain("✓ %s\n", message)
}

// FilesRecent prints the local history of recently opened documents.
func (r *Runner) FilesRecent(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewSessionRepository(db)
	recent, err := repo.RecentFiles(20)
	if err != nil {
		return err
	}

	if len(recent) == 0 {
		return r.writePlain("No recently opened documents\n")
	}

	for _, entry := range recent {
		r.writePlain("%-40s %s\n", entry.Filename, entry.OpenedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
