// Package process terminates the headless browser used for hover
// verification together with the renderer and GPU helpers it spawned.
package process
