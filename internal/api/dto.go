package api

import "github.com/jo-hoe/brandkit/internal/assets"

type ExtractRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ImageResponse struct {
	DataURI  string `json:"dataUri"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type PaletteResponse struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Source    string `json:"source"`
}

type AssetsResponse struct {
	Logo    *ImageResponse  `json:"logo"`
	Palette PaletteResponse `json:"palette"`
	Images  []ImageResponse `json:"images"`
	QRCode  *ImageResponse  `json:"qrCode"`
}

// NewAssetsResponse converts extraction results into their JSON form: images as data
// URIs and colors as #rrggbb. Images is never null.
func NewAssetsResponse(result assets.BrandAssets) AssetsResponse {
	resp := AssetsResponse{
		Logo: newImageResponse(result.Logo),
		Palette: PaletteResponse{
			Primary:   result.Palette.Primary.Hex(),
			Secondary: result.Palette.Secondary.Hex(),
			Accent:    result.Palette.Accent.Hex(),
			Source:    string(result.PaletteSource),
		},
		Images: make([]ImageResponse, 0, len(result.Images)),
		QRCode: newImageResponse(result.QRCode),
	}
	for i := range result.Images {
		resp.Images = append(resp.Images, *newImageResponse(&result.Images[i]))
	}
	return resp
}

func newImageResponse(blob *assets.ImageBlob) *ImageResponse {
	if blob == nil {
		return nil
	}
	return &ImageResponse{
		DataURI:  blob.DataURI(),
		MimeType: blob.MimeType,
		Width:    blob.Width,
		Height:   blob.Height,
	}
}
