// image.go — перекодирование изображений jpeg/png/webp.
package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/webp"
)

// convertImage декодирует изображение и кодирует его в целевой формат.
// Параметр quality [0, 1] применяется при кодировании в jpeg;
// png и webp кодируются без потерь.
func convertImage(content []byte, contentType, target string, quality float64) ([]byte, error) {
	img, err := decodeImage(content, contentType)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch target {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: int(quality * 100)})
	case "png":
		err = png.Encode(&buf, img)
	case "webp":
		err = nativewebp.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("неизвестный целевой формат изображения: %s", target)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось закодировать изображение в %s: %w", target, err)
	}
	return buf.Bytes(), nil
}

// decodeImage декодирует изображение согласно content-type.
func decodeImage(content []byte, contentType string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch contentType {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(content))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(content))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(content))
	default:
		return nil, fmt.Errorf("неизвестный формат изображения: %s", contentType)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать изображение %s: %w", contentType, err)
	}
	return img, nil
}
