package cell_views

import (
	"fmt"
	"html/template"

	"gymtable/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

const (
	cellDim        = 40 // Cell height/width in pixels
	visibleShade   = "0.3"
	hiddenShade    = "0"
	gridViewName   = "gridview"
	statusViewName = "statusview"
)

// GridView draws the world as an svg of tiles with a highlight over the cells the
// agent currently sees.
type GridView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewGridView(
	done <-chan struct{},
	boards <-chan Board,
) *GridView {
	gv := &GridView{id: gridViewName}
	gv.updates = channerics.Convert(done, boards, gv.onUpdate)
	return gv
}

func (gv *GridView) Updates() <-chan []fastview.EleUpdate {
	return gv.updates
}

func tileId(x, y int) string  { return fmt.Sprintf("%d-%d-tile", x, y) }
func glyphId(x, y int) string { return fmt.Sprintf("%d-%d-glyph", x, y) }
func visId(x, y int) string   { return fmt.Sprintf("%d-%d-vis", x, y) }

func shade(visible bool) string {
	if visible {
		return visibleShade
	}
	return hiddenShade
}

// onUpdate returns the set of view updates needed for the view to reflect the board.
func (gv *GridView) onUpdate(board Board) (ops []fastview.EleUpdate) {
	for _, col := range board.Cells {
		for _, cell := range col {
			ops = append(ops,
				fastview.EleUpdate{
					EleId: tileId(cell.X, cell.Y),
					Ops:   []fastview.Op{{Key: "fill", Value: cell.Fill}},
				},
				fastview.EleUpdate{
					EleId: glyphId(cell.X, cell.Y),
					Ops: []fastview.Op{
						{Key: fastview.TextContent, Value: cell.Glyph},
						{Key: "fill", Value: cell.GlyphFill},
					},
				},
				fastview.EleUpdate{
					EleId: visId(cell.X, cell.Y),
					Ops:   []fastview.Op{{Key: "fill-opacity", Value: shade(cell.Visible)}},
				})
		}
	}
	return
}

// Parse defines the grid's svg template.
func (gv *GridView) Parse(t *template.Template) (name string, err error) {
	name = gv.id
	_, err = t.Funcs(template.FuncMap{"shade": shade}).Parse(
		`{{ define "` + name + `" }}
		<div id="` + gv.id + `-container">
			{{ $x_cells := len .Cells }}
			{{ $y_cells := len (index .Cells 0) }}
			{{ $cell_dim := ` + fmt.Sprint(cellDim) + ` }}
			{{ $half_dim := div $cell_dim 2 }}
			<svg id="` + gv.id + `" xmlns='http://www.w3.org/2000/svg'
				width="{{ add (mult $cell_dim $x_cells) 1 }}px"
				height="{{ add (mult $cell_dim $y_cells) 1 }}px"
				style="shape-rendering: crispEdges;">
				{{ range $col := .Cells }}
					{{ range $cell := $col }}
					<g>
						<rect id="{{$cell.X}}-{{$cell.Y}}-tile"
							x="{{ mult $cell.X $cell_dim }}"
							y="{{ mult $cell.Y $cell_dim }}"
							width="{{ $cell_dim }}"
							height="{{ $cell_dim }}"
							fill="{{ $cell.Fill }}"
							stroke="#333333"
							stroke-width="1"/>
						<rect id="{{$cell.X}}-{{$cell.Y}}-vis"
							x="{{ mult $cell.X $cell_dim }}"
							y="{{ mult $cell.Y $cell_dim }}"
							width="{{ $cell_dim }}"
							height="{{ $cell_dim }}"
							fill="white"
							fill-opacity="{{ shade $cell.Visible }}"/>
						<text id="{{$cell.X}}-{{$cell.Y}}-glyph"
							x="{{ add (mult $cell.X $cell_dim) $half_dim }}"
							y="{{ add (mult $cell.Y $cell_dim) $half_dim }}"
							fill="{{ $cell.GlyphFill }}"
							font-size="24"
							dominant-baseline="central" text-anchor="middle"
							>{{ $cell.Glyph }}</text>
					</g>
					{{ end }}
				{{ end }}
			</svg>
		</div>
		{{ end }}`)
	return
}
