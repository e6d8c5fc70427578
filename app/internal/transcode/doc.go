// Package transcode converts downloaded audio into the target container by
// running ffmpeg.
package transcode
