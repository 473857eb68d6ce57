package main

import (
	"flag"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/hostile/logger"
	"github.com/milk9111/hostile/sim"
)

func main() {
	arenaName := flag.String("arena", "arena.yaml", "arena prefab in prefabs/")
	headless := flag.Bool("headless", false, "run the arena script without a window and print the state timeline")
	duration := flag.Float64("duration", 0, "headless run length in seconds (default: arena duration)")
	watch := flag.Bool("watch", false, "hot reload prefabs and cue scripts from prefabs/")
	flag.Parse()

	logger.Init()
	log := logger.For("main")

	arena, err := sim.LoadArena(*arenaName)
	if err != nil {
		log.WithError(err).Fatal("load arena")
	}

	if *headless {
		run := *duration
		if run <= 0 {
			run = arena.Spec.Duration
		}
		arena.Run(run)
		for _, t := range arena.Transitions() {
			fmt.Println(t)
		}
		return
	}

	game := NewGame(arena, *watch)
	defer game.Close()

	ebiten.SetWindowSize(int(arena.Spec.Width)*2, int(arena.Spec.Height)*2)
	ebiten.SetWindowTitle("hostile arena: " + arena.Spec.Name)

	if err := ebiten.RunGame(game); err != nil {
		log.WithError(err).Fatal("run game")
	}
}
