package main

import (
	"go.uber.org/fx"

	"github.com/Lucxx50/BotLucasAllan/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
