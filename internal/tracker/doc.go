// Package tracker runs the per-frame tracking loop.
//
// A Pipeline owns the reusable buffers and runs the imaging and detection
// stages on one frame. A Runner pulls frames from a FrameSource, feeds them
// through the Pipeline and hands the outcome to a Sink. Controls is the only
// state shared with the outside world: the control surface writes settings
// into it and reads results out of it, and the Runner applies new settings
// between frames, never during one.
//
// # Outcomes
//
// Each frame ends in one of:
//   - a Result with Found set and a real Indicator
//   - a Result with Found unset and detection.NoTarget (fewer than three
//     candidates survived; this is normal)
//   - a *detection.CapacityError: the frame is skipped and counted
//   - an error wrapping ErrUpstream: the source failed and the run ends
//
// # Configuration
//
// Config carries the frame geometry and tuning. Geometry problems, such as a
// frame width that is not a multiple of the scale factor, are reported as
// *ConfigError when the Pipeline is built.
package tracker
