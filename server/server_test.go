package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gymtable/levels"
	"gymtable/models"
	"gymtable/server/fastview"
	"gymtable/table_env"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"
)

func newEnv() *table_env.Env {
	env, err := table_env.NewEnv(table_env.Config{Size: 5}, &levels.Empty{})
	if err != nil {
		panic(err)
	}
	return env
}

func TestServer(t *testing.T) {
	Convey("Given a server fed by an environment", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		env := newEnv()
		frames := make(chan table_env.Frame)
		srv, err := NewServer(ctx, ":0", env.Frame(), frames)
		So(err, ShouldBeNil)

		Convey("The index page draws the grid", func() {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := rec.Body.String()
			So(body, ShouldContainSubstring, `id="gridview"`)
			So(body, ShouldContainSubstring, `id="4-4-tile"`)
			So(body, ShouldContainSubstring, levels.EmptyMission)
		})

		Convey("The frame endpoint returns the latest frame", func() {
			env.Step(models.MoveForward)
			frames <- env.Frame()
			So(func() bool {
				deadline := time.Now().Add(time.Second)
				for time.Now().Before(deadline) {
					if srv.Last().StepCount == 1 {
						return true
					}
					time.Sleep(time.Millisecond)
				}
				return false
			}(), ShouldBeTrue)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)

			var frame map[string]interface{}
			So(json.Unmarshal(rec.Body.Bytes(), &frame), ShouldBeNil)
			So(frame["StepCount"], ShouldEqual, 1.0)
			So(frame["Mission"], ShouldEqual, levels.EmptyMission)
		})

		Convey("Unknown routes are not found", func() {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Websocket clients receive element updates", func() {
			ts := httptest.NewServer(srv.Handler())
			defer ts.Close()

			conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
			So(err, ShouldBeNil)
			defer conn.Close()

			// Frames are dropped when they arrive too quickly, so keep sending.
			stop := make(chan struct{})
			defer close(stop)
			go func() {
				for {
					env.Step(models.TurnLeft)
					select {
					case frames <- env.Frame():
					case <-stop:
						return
					}
					time.Sleep(20 * time.Millisecond)
				}
			}()

			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			var updates []fastview.EleUpdate
			So(conn.ReadJSON(&updates), ShouldBeNil)
			So(updates, ShouldNotBeEmpty)

			ids := map[string]bool{}
			for _, update := range updates {
				ids[update.EleId] = true
			}
			So(ids["statusview-status"] || ids["1-1-glyph"], ShouldBeTrue)
		})
	})
}
