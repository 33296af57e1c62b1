package mediaresolve

import "strings"

// Quality/source tags. Matched as upper-case substrings of a filename, so
// overlapping entries (WEB, WEB-DL) are expected.
var qualityTags = []string{
	"WEB-DL",
	"WEBDL",
	"WEBRIP",
	"WEB-RIP",
	"WEB",
	"BLURAY",
	"BLU-RAY",
	"BDRIP",
	"BRRIP",
	"BDREMUX",
	"REMUX",
	"HDTV",
	"PDTV",
	"DVDRIP",
	"DVDSCR",
	"HDRIP",
	"HDCAM",
	"TELESYNC",
	"AMZN",
	"DSNP",
	"HMAX",
	"ATVP",
	"PCOK",
	"HULU",
}

// Technical tags: resolution, HDR variant, video/audio codec, channel layout
// and release flags.
var technicalTags = []string{
	"2160P",
	"1080P",
	"1080I",
	"720P",
	"576P",
	"480P",
	"4K",
	"UHD",
	"HDR10+",
	"HDR10",
	"HDR",
	"DOVI",
	"X264",
	"X265",
	"H264",
	"H.264",
	"H265",
	"H.265",
	"HEVC",
	"AVC",
	"AV1",
	"XVID",
	"DIVX",
	"10BIT",
	"AAC",
	"AC3",
	"EAC3",
	"DDP",
	"DD5.1",
	"DTS-HD",
	"DTS",
	"TRUEHD",
	"ATMOS",
	"FLAC",
	"5.1",
	"7.1",
	"2.0",
	"PROPER",
	"REPACK",
	"INTERNAL",
	"EXTENDED",
	"UNRATED",
	"REMASTERED",
	"IMAX",
}

// catalogTokens holds every catalog entry plus its alphanumeric pieces
// (WEB-DL -> WEB, DL) so the trailing-token group heuristic never mistakes
// a split tag for a release group.
var catalogTokens = buildCatalogTokens(qualityTags, technicalTags)

func buildCatalogTokens(lists ...[]string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, list := range lists {
		for _, tag := range list {
			tokens[tag] = struct{}{}
			for _, piece := range TokenizeParts(tag) {
				tokens[strings.ToUpper(piece)] = struct{}{}
			}
		}
	}
	return tokens
}

func isCatalogToken(token string) bool {
	_, ok := catalogTokens[strings.ToUpper(token)]
	return ok
}
