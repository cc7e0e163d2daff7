package fastview

import (
	"context"
	"html/template"
	"strconv"
	"testing"

	channerics "github.com/niceyeti/channerics/channels"
	. "github.com/smartystreets/goconvey/convey"
)

// textView sets the text of a single element to each incoming view-model.
type textView struct {
	id      string
	updates <-chan []EleUpdate
}

func newTextView(id string) ViewBuilderFunc[string] {
	return func(done <-chan struct{}, vms <-chan string) ViewComponent {
		return &textView{
			id: id,
			updates: channerics.Convert(done, vms, func(vm string) []EleUpdate {
				return []EleUpdate{{EleId: id, Ops: []Op{{Key: TextContent, Value: vm}}}}
			}),
		}
	}
}

func (tv *textView) Updates() <-chan []EleUpdate {
	return tv.updates
}

func (tv *textView) Parse(t *template.Template) (string, error) {
	_, err := t.Parse(`{{ define "` + tv.id + `" }}<p id="` + tv.id + `">{{ . }}</p>{{ end }}`)
	return tv.id, err
}

func TestViewBuilder(t *testing.T) {
	Convey("Happy path builder", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		input := make(chan int)
		views, err := NewViewBuilder[int, string]().
			WithContext(ctx).
			WithModel(input, strconv.Itoa).
			WithView(newTextView("first")).
			WithView(newTextView("second")).
			Build()
		So(err, ShouldBeNil)
		So(views, ShouldHaveLength, 2)

		Convey("Every view receives every view-model", func() {
			go func() { input <- 42 }()
			for i, view := range views {
				var got []EleUpdate
				select {
				case got = <-view.Updates():
				case <-ctx.Done():
				}
				So(got, ShouldHaveLength, 1)
				So(got[0].Ops[0].Value, ShouldEqual, "42")
				So(got[0].EleId, ShouldEqual, []string{"first", "second"}[i])
			}
		})
	})

	Convey("Builder errors", t, func() {
		_, err := NewViewBuilder[int, string]().WithModel(make(chan int), strconv.Itoa).Build()
		So(err, ShouldEqual, ErrNoViews)

		_, err = NewViewBuilder[int, string]().WithView(newTextView("x")).Build()
		So(err, ShouldEqual, ErrNoModel)
	})
}
