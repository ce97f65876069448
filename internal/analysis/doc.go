// Package analysis turns the files written by a run into histograms.
//
// Angle and energy files hold one value per line; section files hold one
// "x y" point per line. Binning goes through gonum's stat.Histogram:
//
//   - [AngleHistogram]: crossing angles on [0, 180]
//   - [EnergyHistogram]: sampled bending energies on [0, max]
//   - [PairDistanceHistogram]: all pairwise distances on [0, 2r]
//   - [NeighborDistanceHistogram]: distances to nearby points only
package analysis
