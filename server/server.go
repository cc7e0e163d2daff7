package server

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"gymtable/server/cell_views"
	"gymtable/server/fastview"
	"gymtable/server/root_view"
	"gymtable/table_env"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const shutdownGracePeriod = 5 * time.Second

// Server serves a single page showing the latest episode frame, kept current over a
// websocket. The ele-update stream is shared, so concurrent pages split the updates
// between them; this is a development view for one viewer.
type Server struct {
	addr     string
	rootView *root_view.RootView
	router   *mux.Router

	mu   sync.RWMutex
	last table_env.Frame
}

// NewServer builds the views and starts consuming frames. The initial frame determines
// the grid dimensions drawn by the page; later frames must keep them.
func NewServer(
	ctx context.Context,
	addr string,
	initial table_env.Frame,
	frames <-chan table_env.Frame,
) (*Server, error) {
	viewFrames := make(chan table_env.Frame, 1)
	rootView, err := root_view.NewRootView(ctx, viewFrames)
	if err != nil {
		return nil, errors.Wrap(err, "build views")
	}

	server := &Server{
		addr:     addr,
		rootView: rootView,
		last:     initial,
	}
	server.router = server.routes()

	go server.record(ctx, frames, viewFrames)
	return server, nil
}

// record keeps the latest frame and forwards frames to the views, dropping them while
// the views are busy.
func (server *Server) record(
	ctx context.Context,
	frames <-chan table_env.Frame,
	viewFrames chan<- table_env.Frame,
) {
	defer close(viewFrames)
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			server.mu.Lock()
			server.last = frame
			server.mu.Unlock()

			select {
			case viewFrames <- frame:
			default:
			}
		}
	}
}

// Last returns the most recent frame.
func (server *Server) Last() table_env.Frame {
	server.mu.RLock()
	defer server.mu.RUnlock()
	return server.last
}

func (server *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.serveWebsocket)
	router.HandleFunc("/frame", server.serveFrame).Methods(http.MethodGet)
	return router
}

// Handler exposes the routes, e.g. for tests.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (server *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    server.addr,
		Handler: server.router,
	}

	errs := make(chan error, 1)
	go func() {
		log.Println("serving on", server.addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errs; err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serve")
	}
	return nil
}

// serveWebsocket publishes view updates to the client until it disconnects.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := fastview.NewClient(server.rootView.Updates(), w, r)
	if err != nil {
		log.Println(err)
		return
	}
	if err = cli.Sync(); err != nil {
		log.Println("websocket:", err)
	}
}

// serveFrame returns the latest frame as json.
func (server *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(server.Last()); err != nil {
		log.Println("frame:", err)
	}
}

// serveIndex serves the main page, drawn from the latest frame.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	board := cell_views.Convert(server.Last())
	if err := renderTemplate(w, server.rootView, board); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func renderTemplate(
	w io.Writer,
	vc fastview.ViewComponent,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}
	return t.Execute(w, data)
}
