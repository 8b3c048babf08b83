package main

import (
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// NewGameOverUI builds a centered panel with the round result and a button
// that starts the next round.
func NewGameOverUI(message string, width, height int, onReplay func()) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnPressedImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	title := widget.NewText(
		widget.TextOpts.Text(message, &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	hint := widget.NewText(
		widget.TextOpts.Text("tap anywhere to play again", &face, color.NRGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	replayBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnPressedImg}),
		widget.ButtonOpts.Text("Play again", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onReplay != nil {
				onReplay()
			}
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width/2, height/4),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(hint)
	panel.AddChild(replayBtn)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
