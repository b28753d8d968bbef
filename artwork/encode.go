package artwork

import (
	"encoding/base64"
	"fmt"
)

const (
	svgDataURIPrefix  = "data:image/svg+xml;base64,"
	jsonDataURIPrefix = "data:application/json;base64,"

	tokenName        = "Dynamic SVG NFT"
	tokenDescription = "Dynamic on-chain SVG NFT"
)

// SVGToDataURI encodes a raw SVG payload as a base64 data URI.
func SVGToDataURI(raw string) string {
	return svgDataURIPrefix + base64.StdEncoding.EncodeToString([]byte(raw))
}

// GenerateTokenURI builds the self-contained metadata document for a token:
// a JSON object with the token name, a fixed description, and the encoded
// image, itself base64-wrapped behind an application/json data URI. The key
// order and spacing are fixed so external consumers can cache renders.
func GenerateTokenURI(tokenID uint64, encodedShape string) string {
	doc := fmt.Sprintf(`{"name": "%s #%d", "description": "%s", "image": "%s"}`,
		tokenName, tokenID, tokenDescription, encodedShape)
	return jsonDataURIPrefix + base64.StdEncoding.EncodeToString([]byte(doc))
}
