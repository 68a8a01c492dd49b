package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quasar/mclaunch/internal/api"
	"github.com/quasar/mclaunch/internal/core"
)

func main() {
	game := "1.21.4"
	if len(os.Args) > 1 {
		game = os.Args[1]
	}
	loader := core.LoaderFabric
	if len(os.Args) > 2 {
		loader = core.ParseLoader(os.Args[2])
	}

	client := api.NewLoaderMetaClient()
	ctx := context.Background()

	fmt.Printf("Querying %s builds for %s\n", loader, game)

	builds, err := client.LoaderBuilds(ctx, loader, core.VersionID(game))
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d build(s)\n", len(builds))
	for i, b := range builds {
		if i >= 5 {
			fmt.Println("  ...")
			break
		}
		fmt.Printf("  %s stable=%v\n", b.Version, b.Stable)
	}

	pick, err := api.PickBuild(builds)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Picked: %s\n", pick.Version)

	profile, err := client.LoaderProfile(ctx, loader, core.VersionID(game), pick.Version)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Profile id: %s\n", profile.ID)
	fmt.Printf("Inherits from: %s\n", profile.InheritsFrom)
	fmt.Printf("Main class: %s\n", profile.MainClass)
	fmt.Printf("Libraries: %d\n", len(profile.Libraries))
	for i := range profile.Libraries {
		if i >= 5 {
			fmt.Println("  ...")
			break
		}
		fmt.Printf("  %s\n", profile.Libraries[i].Name)
	}
}
