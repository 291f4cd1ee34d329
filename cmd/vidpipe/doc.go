// Command vidpipe turns a job file of ordered script sections into narrated
// audio, captions, and a finished video.
//
// Typical use:
//
//	vidpipe config init
//	vidpipe deps
//	vidpipe render episode.yaml
//	vidpipe jobs list
//
// The speak, footage, and subtitles commands run a single stage of the
// pipeline for inspection. Configuration is read from
// ~/.config/vidpipe/config.toml unless --config is given; a .env file in the
// working directory is loaded first so API keys can live outside the config.
package main
