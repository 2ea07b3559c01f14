package ui

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/colorwargame/colorwar/internal/audio"
	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/config"
	"github.com/colorwargame/colorwar/internal/game"
	"github.com/colorwargame/colorwar/internal/game/core"
	"github.com/colorwargame/colorwar/internal/ui/input"
	"github.com/colorwargame/colorwar/internal/ui/renderer"
)

// UI configuration functions
func ScreenWidth() int {
	return config.Get().UI.Window.Width
}

func ScreenHeight() int {
	return config.Get().UI.Window.Height
}

func CellSize() int {
	return config.Get().UI.Board.CellSize
}

func WaveDelay() time.Duration {
	return time.Duration(config.Get().UI.Board.WaveDelayMs) * time.Millisecond
}

// BannerHeight is the strip above the board that shows whose move it is.
func BannerHeight() int {
	return ScreenHeight() - core.Rows*CellSize()
}

const (
	// Ebitengine ticks Update at 60 TPS.
	frameSeconds = float32(1.0 / 60.0)
	// Frames a rejected-move note stays on the banner.
	messageFrames = 120
	// Cascades can run deep; only the first few waves get a burst sound.
	maxBurstWaves = 4
)

// UIGame drives a hot seat match: every seat is played from this window and
// the banner tracks whose move it is.
type UIGame struct {
	engine        *game.Engine
	colors        []common.Color
	boardRenderer *renderer.BoardRenderer
	inputHandler  *input.Handler
	sounds        *audio.Manager
	defaultFont   font.Face
	logger        zerolog.Logger

	flashes      []*renderer.ExplosionFlash
	pendingBooms []float32

	// UI state
	statusMessage string
	messageTimer  int
}

// NewUIGame creates a new Ebitengine game instance around an open match.
func NewUIGame(engine *game.Engine, sounds *audio.Manager, logger zerolog.Logger) (*UIGame, error) {
	if engine == nil {
		return nil, errors.New("ui: engine is required")
	}
	if sounds == nil {
		return nil, errors.New("ui: audio manager is required")
	}

	players := engine.Players()
	colors := make([]common.Color, len(players))
	for i, p := range players {
		colors[i] = p.Color
	}

	g := &UIGame{
		engine:      engine,
		colors:      colors,
		sounds:      sounds,
		defaultFont: basicfont.Face7x13,
		logger:      logger.With().Str("component", "ui").Logger(),
	}

	g.boardRenderer = renderer.NewBoardRenderer(CellSize(), g.defaultFont)
	g.boardRenderer.SetOffset(0, BannerHeight())
	g.inputHandler = input.NewHandler(CellSize())
	g.inputHandler.SetBoardOffset(0, BannerHeight())

	return g, nil
}

// Update handles one frame of input and animation.
func (g *UIGame) Update() error {
	g.inputHandler.Update()

	if g.inputHandler.QuitPressed() {
		return ebiten.Termination
	}

	if g.messageTimer > 0 {
		g.messageTimer--
	}
	g.updateFlashes()
	g.updateBooms()

	if g.engine.Status().Over {
		if g.inputHandler.RestartPressed() {
			return g.restart()
		}
		return nil
	}

	if at, ok := g.inputHandler.ClickedCell(); ok {
		g.applyMove(at)
	}
	return nil
}

// applyMove plays the clicked cell for whichever seat is up. A rejected
// move only flashes a note; the match is untouched.
func (g *UIGame) applyMove(at core.Coordinate) {
	player := g.engine.CurrentPlayer()
	result, err := g.engine.ApplyMove(player, at)
	if err != nil {
		g.showMessage(rejectionNote(err))
		return
	}

	g.sounds.PlayPlacement()
	g.spawnFlashes(result)
	if len(result.Eliminated) > 0 {
		g.sounds.PlayElimination()
	}
	if result.Winner != game.NoWinner {
		g.sounds.PlayVictory()
	}
}

// spawnFlashes queues one ring per detonation, delayed by its cascade wave,
// and one burst sound per wave up to the cap.
func (g *UIGame) spawnFlashes(result *game.MoveResult) {
	if len(result.Explosions) == 0 {
		return
	}

	clr := result.Color.RGBA()
	waves := 0
	for _, ex := range result.Explosions {
		if ex.Wave+1 > waves {
			waves = ex.Wave + 1
		}
		g.flashes = append(g.flashes,
			renderer.NewExplosionFlash(ex.Origin, clr, time.Duration(ex.Wave)*WaveDelay()))
	}

	if waves > maxBurstWaves {
		waves = maxBurstWaves
	}
	for wave := 0; wave < waves; wave++ {
		g.pendingBooms = append(g.pendingBooms,
			float32(wave)*float32(WaveDelay().Seconds()))
	}
}

func (g *UIGame) updateFlashes() {
	kept := g.flashes[:0]
	for _, f := range g.flashes {
		if !f.Update(frameSeconds) {
			kept = append(kept, f)
		}
	}
	g.flashes = kept
}

func (g *UIGame) updateBooms() {
	kept := g.pendingBooms[:0]
	for _, t := range g.pendingBooms {
		t -= frameSeconds
		if t <= 0 {
			g.sounds.PlayExplosion()
		} else {
			kept = append(kept, t)
		}
	}
	g.pendingBooms = kept
}

// restart opens a fresh match with the same seats. The turn order is
// reshuffled, so a different seat may open.
func (g *UIGame) restart() error {
	engine, err := game.NewEngine(game.Config{
		Colors: g.colors,
		Logger: g.logger,
	})
	if err != nil {
		return err
	}

	g.engine = engine
	g.flashes = g.flashes[:0]
	g.pendingBooms = g.pendingBooms[:0]
	g.statusMessage = ""
	g.messageTimer = 0
	g.logger.Info().
		Str("match_id", engine.MatchID()).
		Int("players", len(g.colors)).
		Msg("Match restarted")
	return nil
}

func (g *UIGame) showMessage(msg string) {
	g.statusMessage = msg
	g.messageTimer = messageFrames
}

// Draw renders the banner, the board and any live explosion rings.
func (g *UIGame) Draw(screen *ebiten.Image) {
	screen.Fill(common.BackgroundColor)

	g.boardRenderer.Draw(screen, g.engine.Board(), g.engine.Players())
	for _, f := range g.flashes {
		f.Draw(screen, g.boardRenderer)
	}
	g.drawBanner(screen)

	if config.Get().Development.ShowFPS {
		debugStr := fmt.Sprintf("TPS: %0.1f  Turn: %d", ebiten.ActualTPS(), g.engine.Turn())
		ebitenutil.DebugPrintAt(screen, debugStr, 5, 5)
	}
}

func (g *UIGame) drawBanner(screen *ebiten.Image) {
	status := g.engine.Status()

	var title string
	titleColor := color.Color(common.BannerTextColor)
	switch {
	case status.Over && status.Winner != game.NoWinner:
		seat, _ := g.engine.PlayerByID(status.Winner)
		title = fmt.Sprintf("%s wins! Press R to play again", capitalize(seat.Color.String()))
		titleColor = seat.Color.RGBA()
	case status.Over:
		title = "Nobody wins. Press R to play again"
	default:
		seat, _ := g.engine.PlayerByID(g.engine.CurrentPlayer())
		title = fmt.Sprintf("%s to move", capitalize(seat.Color.String()))
		titleColor = seat.Color.RGBA()
	}

	g.boardRenderer.CenteredText(screen, title, ScreenWidth(), BannerHeight()/2+4, titleColor)

	if g.messageTimer > 0 && g.statusMessage != "" {
		g.boardRenderer.CenteredText(screen, g.statusMessage,
			ScreenWidth(), BannerHeight()-12, color.Gray{Y: 200})
	}
}

// Layout defines the Ebitengine screen size.
func (g *UIGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth(), ScreenHeight()
}

// rejectionNote turns a rules error into a short banner note.
func rejectionNote(err error) string {
	switch {
	case errors.Is(err, core.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, core.ErrCellOccupied):
		return "First move must be an empty cell"
	case errors.Is(err, core.ErrNotOwned):
		return "Pick one of your own cells"
	case errors.Is(err, core.ErrOutOfBounds):
		return "Outside the board"
	case errors.Is(err, core.ErrGameOver):
		return "The match is over"
	default:
		return "Move rejected"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
