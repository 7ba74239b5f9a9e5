package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StoredFileName 生成上传文件的存储名，保留原扩展名
func StoredFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	return uuid.NewString() + ext
}

// SaveUploadedFile 将上传文件以新文件名保存到 dir，返回保存后的相对路径
func SaveUploadedFile(dir string, fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %w", err)
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return saveStream(dir, fh.Filename, src)
}

// saveStream 写入 dir 下的新文件，失败时不留下残留文件
func saveStream(dir, original string, src io.Reader) (string, error) {
	name := StoredFileName(original)
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(dir), name)), nil
}
