// Package watch re-runs capability checks when the NVIDIA driver state
// changes, using udev netlink events so no polling is needed.
package watch
