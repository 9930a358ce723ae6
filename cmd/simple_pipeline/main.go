package main

import (
	"context"
	"fmt"

	"github.com/tarungka/rxwire/sources"
	"github.com/tarungka/rxwire/stream"
)

func main() {
	ctx := context.Background()

	// Pushed: the range emits through OnNext.
	pushed := stream.NewCollectSink[int]()
	p1 := stream.NewPipeline[int]("pushed", sources.NewRange(1, 5), pushed)
	p1.AddOperator(stream.NewMapOperator[int]("double", func(v int) int { return v * 2 }))
	if err := p1.Run(ctx); err != nil {
		panic(err)
	}

	// Fused: the map stage pulls from the range with Poll.
	pulled := stream.NewCollectSink[int]()
	p2 := stream.NewPipeline[int]("pulled", sources.NewRange(1, 5), pulled)
	p2.AddOperator(stream.NewMapOperator[int]("double", func(v int) int { return v * 2 }).WithFusion(stream.FusionSync))
	if err := p2.Run(ctx); err != nil {
		panic(err)
	}

	fmt.Printf("pushed: %v\n", pushed.Values())
	fmt.Printf("pulled: %v\n", pulled.Values())
}
