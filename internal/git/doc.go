// Package git commits the files a sync run changed, using go-git so no git
// binary is needed on the host.
package git
