// Package stratum is a 2.5D transform graph and quad renderer for
// [Ebitengine] tile and isometric games.
//
// # Transforms
//
// Every positioned object owns a [Transform]. Transforms form a tree ending
// at [Root]. Each one holds a local position, rotation, scale and height;
// world values fold up the chain (sums for position, rotation and height,
// products for scale). The combined local-to-world matrix is cached and
// recomputed lazily after any change to the transform or an ancestor.
//
//	room := stratum.NewTransform(nil, nil) // child of Root
//	crate := stratum.NewTransform(nil, room)
//	room.SetPosition(stratum.Vec2{X: 64, Y: 32})
//	crate.SetHeight(-8) // lift 8 pixels up the screen
//
// Setters notify observers before the change is committed:
//
//	sub := crate.OnChange(func(ev stratum.TransformChangeEvent) {
//		log.Printf("%v: %v -> %v", ev.Kind, ev.OldValue, ev.NewValue)
//	})
//	defer sub.Remove()
//
// # Quads
//
// A [Quad] is four [Vertex] values, each an offset in some transform's
// space, joined by [Edge] values. Floors lie on the ground plane; walls are
// marked with [Quad.SetIsVertical] and are skipped when their leading edge
// faces away from the camera. [Quad.Depth] gives the painter's sort key.
//
// # Drawing
//
// [Scene] sorts its renderables back to front and draws them with an
// [EbitenBackend] through its [ViewCamera]. [Run] opens a window for a
// scene:
//
//	scene := stratum.NewScene(stratum.Rect{Width: 640, Height: 480})
//	level, _ := stratum.BuildLevel(cfg, nil)
//	level.AddTo(scene)
//	stratum.Run(scene, stratum.RunConfig{Title: "Room", Width: 640, Height: 480})
//
// Levels can be described in YAML ([LoadLevelConfig]) or drawn in Tiled
// ([LoadTiledLevel]). The ecs sub-package forwards transform changes into a
// [Donburi] world.
//
// stratum is single-threaded: all calls must come from the game loop goroutine.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package stratum
