// Package view holds the interaction state a renderer reads every frame and
// the navigation controller that mutates it.
//
// The renderer never touches domain data. Once per tick it calls
// [Controller.Frame] for the current snapshot, the role of every node and
// the [State]; pointer events go through [Controller.PointerOver],
// [Controller.PointerOut] and [Controller.PointerDown]; clicks and control
// buttons go through [Controller.Click] and [Controller.Do].
//
// State transitions:
//
//	Idle      --PointerOver(n)--> Hovering(n)
//	Hovering  --PointerOut(n)---> Idle
//	Rotating  --PointerDown(canvas)--> still, until the next commit or ResetRotation
//	any       --commit---------> {hovered: none, rotating: true, cameraReset: true}
//
// CameraReset is a one-shot signal: the renderer consumes it with
// [Controller.TakeCameraReset] in the pass that applies it.
package view
