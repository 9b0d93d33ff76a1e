package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/plotwise/chart"
	"github.com/fsnotify/fsnotify"
)

// Session is one loaded document source and its current chart
// description. Sources that are watched re-emit a Session whenever the
// underlying file changes; a decode failure mid-watch keeps the previous
// Params and surfaces the failure in Err until the next successful load.
type Session struct {
	ID     string
	Params chart.Params
	Err    error
}

// Datasource loads chart documents from files or readers and streams
// their sessions to the UI.
type Datasource struct {
	pool *stream.MutationPool[string, Session]
}

func NewDatasource(mutator *stream.Mutator) *Datasource {
	return &Datasource{
		pool: stream.NewMutationPool[string, Session](mutator),
	}
}

func generateSessionID() string {
	return strings.Replace(time.Now().UTC().Format("20060102150405.000000000"), ".", "", 1)
}

// SessionStream exposes every live session keyed by ID.
func (d *Datasource) SessionStream(ctx context.Context) <-chan map[string]*stream.Mutation[Session] {
	return d.pool.Stream(ctx)
}

// CurrentSession streams the most recently started session, switching
// over whenever a new source is loaded.
func (d *Datasource) CurrentSession(ctx context.Context) <-chan Session {
	return stream.Multiplex(d.pool.Stream(ctx), func(ctx context.Context, state string, mutations map[string]*stream.Mutation[Session]) (<-chan Session, string) {
		var newest string
		for id := range mutations {
			// Session IDs are generation timestamps, so the lexical
			// maximum is the most recent.
			if id > newest {
				newest = id
			}
		}
		if newest == "" || newest == state {
			return nil, state
		}
		state = newest
		return mutations[newest].Stream(ctx), state
	})
}

// LoadFromFile prompts for a document with the system file dialog.
// Files chosen from disk are watched for changes.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) (string, error) {
	file, err := expl.ChooseFile()
	if err != nil {
		return "", err
	}
	if f, ok := file.(*os.File); ok {
		name := f.Name()
		f.Close()
		return d.LoadFromPath(name), nil
	}
	return d.LoadFromStream(file), nil
}

// LoadFromPath loads the document at path and keeps the session updated
// as the file is rewritten.
func (d *Datasource) LoadFromPath(path string) string {
	sessionID := generateSessionID()
	selector := "#" + filepath.Base(path)
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	d.runSession(sessionID, selector, title, path)
	return sessionID
}

// LoadFromStream loads one document from a reader. Streams cannot be
// watched, so the session emits exactly one state.
func (d *Datasource) LoadFromStream(r io.ReadCloser) string {
	sessionID := generateSessionID()
	stream.Mutate(d.pool, sessionID, func(ctx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			defer r.Close()
			session := Session{ID: sessionID}
			session.Params, session.Err = loadDocument(r, "#stream-"+sessionID, "streamed data")
			select {
			case out <- session:
			case <-ctx.Done():
			}
		}()
		return out
	})
	return sessionID
}

// LoadFromURL fetches a document over HTTP. Remote documents load once;
// there is no change stream to watch.
func (d *Datasource) LoadFromURL(docURL string) string {
	sessionID := generateSessionID()
	stream.Mutate(d.pool, sessionID, func(ctx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			session := Session{ID: sessionID}
			session.Params, session.Err = fetchDocument(ctx, docURL)
			select {
			case out <- session:
			case <-ctx.Done():
			}
		}()
		return out
	})
	return sessionID
}

func fetchDocument(ctx context.Context, docURL string) (chart.Params, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return chart.Params{}, fmt.Errorf("fetching document: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return chart.Params{}, fmt.Errorf("fetching document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return chart.Params{}, fmt.Errorf("fetching document: unexpected status %s", resp.Status)
	}
	name := docURL
	if u, err := url.Parse(docURL); err == nil && path.Base(u.Path) != "." && path.Base(u.Path) != "/" {
		name = path.Base(u.Path)
	}
	title := strings.TrimSuffix(name, path.Ext(name))
	return loadDocument(resp.Body, "#"+name, title)
}

// runSession owns the lifecycle of one watched file: load, emit, then
// reload on every write until the session context ends.
func (d *Datasource) runSession(sessionID, selector, title, path string) {
	stream.Mutate(d.pool, sessionID, func(ctx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			session := Session{ID: sessionID}
			emit := func() bool {
				select {
				case out <- session:
					return true
				case <-ctx.Done():
					return false
				}
			}
			load := func() {
				f, err := os.Open(path)
				if err != nil {
					session.Err = fmt.Errorf("opening document: %w", err)
					return
				}
				defer f.Close()
				params, err := loadDocument(f, selector, title)
				if err != nil {
					// Keep the previous chart; rewrites often race the
					// read, and the next write event retries anyway.
					session.Err = err
					return
				}
				session.Params = params
				session.Err = nil
			}
			load()
			if !emit() {
				return
			}
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				session.Err = fmt.Errorf("creating file watcher: %w", err)
				emit()
				return
			}
			defer watcher.Close()
			// Watch the parent directory rather than the file so that
			// write-then-rename replacement does not orphan the watch.
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				session.Err = fmt.Errorf("watching %q: %w", path, err)
				emit()
				return
			}
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					if filepath.Clean(ev.Name) != filepath.Clean(path) {
						continue
					}
					if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
						load()
						if !emit() {
							return
						}
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					session.Err = fmt.Errorf("watching %q: %w", path, err)
					if !emit() {
						return
					}
				}
			}
		}()
		return out
	})
}

func loadDocument(r io.Reader, selector, title string) (chart.Params, error) {
	doc, err := DecodeDocument(r)
	if err != nil {
		return chart.Params{}, err
	}
	return doc.ChartParams(selector, title)
}
