// Package detection turns a classified grid into a single aim point.
//
// The stages run in this order on every frame:
//
//  1. ClassifyUnits: apply the color test to each working-grid cell
//  2. Labeler.Label: flood fill foreground cells into 4-connected groups
//  3. CollectGroups: member count and bounding box per group
//  4. ShapeRules.Filter: drop groups that are too small, slim or elongated
//  5. Rank: order the surviving Candidates by size or by closeness to the mean
//  6. Estimate: average the top candidates into an Indicator
//
// # Coordinate System
//
// Everything up to Estimate works in working-grid cells. Estimate multiplies
// its result by the downscale factor so the Indicator is in frame pixels.
// Group bounds are inclusive on both ends: a single cell has MinX == MaxX.
//
// # Flood Fill
//
// Labeling uses an explicit LIFO queue rather than recursion; a blob can
// cover the whole grid and recursion depth would follow it. The queue grows
// as needed unless Labeler.QueueLimit is set, in which case overflowing it
// returns a *CapacityError and the frame should be dropped. Jobs are never
// silently discarded.
//
// # Determinism
//
// Every stage is deterministic. Ranking uses stable sorts so equal sizes keep
// their filter order, and the same grid always yields the same Indicator.
package detection
