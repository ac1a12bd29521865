package util

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid data uri")

// SaveFile 保存文件
func SaveFile(path string, data []byte) error {
	// 确保目录存在
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// 写入文件
	return os.WriteFile(path, data, 0644)
}

// DecodeDataURI 解析 data:<mime>;base64,<payload> 格式，也接受纯base64
func DecodeDataURI(uri string) (data []byte, mime string, err error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, "", ErrInvalidDataURI
	}
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		header, body, ok := strings.Cut(uri[len("data:"):], ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", ErrInvalidDataURI
		}
		mime = strings.TrimSuffix(header, ";base64")
		payload = body
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrInvalidDataURI
	}
	if mime == "" {
		mime = SniffImageMime(data)
	}
	return data, mime, nil
}

// EncodeDataURI 编码为data uri
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SniffImageMime 通过文件头判断图片类型
func SniffImageMime(data []byte) string {
	switch {
	case len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 6 && (string(data[:6]) == "GIF87a" || string(data[:6]) == "GIF89a"):
		return "image/gif"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	case len(data) >= 2 && string(data[:2]) == "BM":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// ImageExt 图片类型对应的扩展名
func ImageExt(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	default:
		return ""
	}
}
