package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sphv/archive"
	"sphv/config"
	"sphv/content"
	"sphv/state"
	"sphv/theme"
	"sphv/viewer"
)

// errEnough stops walking when handler does not need any more pages.
var errEnough = errors.New("no more pages needed")

// pageHandler is called for every successfully prepared page. "src" is the
// page path relative to the processed source (see processPage).
type pageHandler func(ctx context.Context, c *content.Content, src string) error

// processor walks a source (file, directory or archive) and hands every
// recognized page to its handler.
type processor struct {
	handle pageHandler
	log    *zap.Logger
	limit  int // 0 - no limit
	count  int
	single bool // source was a single page file
}

// Run is the action of the "convert" command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src, err := sourcePath(cmd)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Format = env.Cfg.Document.OutputFormat
	if to := cmd.String("to"); len(to) > 0 {
		format, err := config.ParseOutputFmt(to)
		if err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Stringer("format", env.Format), zap.Error(err))
		} else {
			env.Format = format
		}
	}
	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	th := theme.New(env.Stylesheet, log)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	p := &processor{
		log: log,
		handle: func(ctx context.Context, c *content.Content, src string) error {
			return convertPage(ctx, c, src, dst, th, log)
		},
	}
	return p.process(ctx, src)
}

// Toc is the action of the "toc" command: it prints anchors and titles of
// every recognized page.
func Toc(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("toc")

	src, err := sourcePath(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	var p *processor
	p = &processor{
		log: log,
		handle: func(_ context.Context, c *content.Content, src string) error {
			if !p.single {
				if p.count > 1 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "# %s\n", filepath.ToSlash(src))
			}
			return writeTOC(out, c)
		},
	}
	return p.process(ctx, src)
}

// View is the action of the "view" command: it opens terminal viewer for the
// first recognized page.
func View(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("view")

	src, err := sourcePath(cmd)
	if err != nil {
		return err
	}

	th := theme.New(env.Stylesheet, log)

	p := &processor{
		log:   log,
		limit: 1,
		handle: func(ctx context.Context, c *content.Content, _ string) error {
			return viewer.New(c, th, env.Cfg.Viewer, log).Run(ctx)
		},
	}
	if err := p.process(ctx, src); err != nil {
		return err
	}
	if p.count == 0 {
		return fmt.Errorf("no pages to view were found (%s)", src)
	}
	return nil
}

func sourcePath(cmd *cli.Command) (string, error) {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return "", errors.New("no input source has been specified")
	}
	return filepath.Abs(src)
}

func writeTOC(w io.Writer, c *content.Content) error {
	for _, e := range c.Doc.TOC {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Anchor.ID, e.Title); err != nil {
			return err
		}
	}
	return nil
}

// convertPage renders prepared page into destination directory.
func convertPage(ctx context.Context, c *content.Content, src, dst string, th *theme.Theme, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	// Determine output file name and path based on input and configuration.
	outputName := buildOutputPath(c, src, dst, env)

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := writeTo(ctx, c, env.Format, th, outputName, log); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}

	if fi, err := os.Stat(outputName); err == nil {
		log.Info("Output written", zap.String("to", outputName), zap.String("size", humanize.Bytes(uint64(fi.Size()))))
	}

	// Store conversion result for debugging, identical pages share id
	if err := env.Rpt.StoreCopy(fmt.Sprintf("result-%s%s", c.ID, filepath.Ext(outputName)), outputName); err != nil {
		log.Warn("Unable to store result in report", zap.String("file", outputName), zap.Error(err))
	}
	return nil
}

// process determines the input type (directory, archive, or single file) and
// processes accordingly. Source could point inside of archive:
// "archive.zip/path/in/archive".
func (p *processor) process(ctx context.Context, src string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := p.processDir(ctx, head); err != nil && !errors.Is(err, errEnough) {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := p.processArchive(ctx, head, filepath.ToSlash(tail), ""); err != nil && !errors.Is(err, errEnough) {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		page, enc, err := isPageFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if page && len(tail) == 0 {
			p.single = true
			if err := p.processFile(ctx, head, filepath.Base(head), enc); err != nil && !errors.Is(err, errEnough) {
				return err
			}
			break
		}
		return fmt.Errorf("input was not recognized as HTML page (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree in natural name order finding pages and
// archives and processes them. Symbolic links are not followed.
func (p *processor) processDir(ctx context.Context, dir string) (err error) {
	start := p.count
	defer func() {
		if err == nil && p.count == start {
			p.log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()
	return p.walkDir(ctx, dir, dir)
}

func (p *processor) walkDir(ctx context.Context, root, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == root {
			return err
		}
		p.log.Warn("Skipping path", zap.String("path", dir), zap.Error(err))
		return nil
	}
	slices.SortStableFunc(entries, func(a, b os.DirEntry) int {
		switch {
		case natural.Less(a.Name(), b.Name()):
			return -1
		case natural.Less(b.Name(), a.Name()):
			return 1
		}
		return 0
	})

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if err := p.walkDir(ctx, root, path); err != nil {
				return err
			}
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			// checking format - but cannot open target file
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			if err := p.processArchive(ctx, path, "", filepath.Dir(strings.TrimPrefix(path, root))); err != nil {
				if errors.Is(err, errEnough) || ctx.Err() != nil {
					return err
				}
				p.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		page, enc, err := isPageFile(path)
		if err != nil {
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !page {
			p.log.Debug("Skipping file, not recognized as page or archive", zap.String("file", path))
			continue
		}

		src := strings.TrimPrefix(strings.TrimPrefix(path, root), string(filepath.Separator))
		if err := p.processFile(ctx, path, src, enc); err != nil {
			if errors.Is(err, errEnough) || ctx.Err() != nil {
				return err
			}
			p.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}
	return nil
}

// processArchive walks all files inside archive, finds pages under "pathIn"
// and processes them. "pathOut" is prepended to the page names.
func (p *processor) processArchive(ctx context.Context, path, pathIn, pathOut string) (err error) {
	start := p.count
	defer func() {
		if err == nil && p.count == start {
			p.log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	return archive.Walk(path, pathIn, func(archive string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, enc, err := isPageInArchive(f)
		if err != nil {
			p.log.Warn("Skipping file in archive",
				zap.String("archive", archive), zap.String("path", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if !page {
			p.log.Debug("Skipping file, not recognized as page", zap.String("archive", archive), zap.String("file", f.FileHeader.Name))
			return nil
		}

		r, err := f.Open()
		if err != nil {
			p.log.Error("Unable to process file in archive",
				zap.String("archive", archive), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		if err := p.processPage(ctx, selectReader(r, enc), filepath.Join(pathOut, filepath.FromSlash(f.FileHeader.Name))); err != nil {
			if errors.Is(err, errEnough) || ctx.Err() != nil {
				return err
			}
			p.log.Error("Unable to process file in archive",
				zap.String("archive", archive), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
}

func (p *processor) processFile(ctx context.Context, path, src string, enc srcEncoding) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return p.processPage(ctx, selectReader(file, enc), src)
}

// processPage processes single page. "src" is part of the source path (always
// including file name) relative to the original path. When actual file was
// specified it will be just base file name without a path. When looking
// inside archive or directory it will be relative path inside archive or
// directory (including base file name). Returns errEnough when handler got
// all pages it wanted.
func (p *processor) processPage(ctx context.Context, r io.Reader, src string) (rerr error) {
	if p.limit > 0 && p.count >= p.limit {
		return errEnough
	}

	p.log.Debug("Page processing starting", zap.String("from", src))
	defer func(start time.Time) {
		// single broken page should not stop processing of the rest
		if r := recover(); r != nil {
			p.log.Error("Page processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("from", src), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("processing panic: %v", r)
		} else if rerr == nil {
			p.log.Debug("Page processing completed", zap.Duration("elapsed", time.Since(start)), zap.String("from", src))
		}
	}(time.Now())

	c, err := content.Prepare(ctx, r, src, p.log)
	if err != nil {
		return fmt.Errorf("unable to parse page (%s): %w", src, err)
	}
	p.count++

	if err := p.handle(ctx, c, src); err != nil {
		return err
	}
	if p.limit > 0 && p.count >= p.limit {
		return errEnough
	}
	return nil
}
