package cell_views

import (
	"html/template"

	"gymtable/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// StatusView shows the mission and episode progress as text.
type StatusView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewStatusView(
	done <-chan struct{},
	boards <-chan Board,
) *StatusView {
	sv := &StatusView{id: statusViewName}
	sv.updates = channerics.Convert(done, boards, sv.onUpdate)
	return sv
}

func (sv *StatusView) Updates() <-chan []fastview.EleUpdate {
	return sv.updates
}

func (sv *StatusView) onUpdate(board Board) []fastview.EleUpdate {
	return []fastview.EleUpdate{
		{
			EleId: sv.id + "-mission",
			Ops:   []fastview.Op{{Key: fastview.TextContent, Value: board.Mission}},
		},
		{
			EleId: sv.id + "-status",
			Ops:   []fastview.Op{{Key: fastview.TextContent, Value: board.Status}},
		},
	}
}

func (sv *StatusView) Parse(t *template.Template) (name string, err error) {
	name = sv.id
	_, err = t.Parse(
		`{{ define "` + name + `" }}
		<div id="` + sv.id + `" style="font-family: monospace; padding: 8px;">
			<div id="` + sv.id + `-mission">{{ .Mission }}</div>
			<div id="` + sv.id + `-status">{{ .Status }}</div>
		</div>
		{{ end }}`)
	return
}
