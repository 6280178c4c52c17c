// Package archive копирует каталог analysis_<run> в S3-совместимое
// хранилище (MinIO).
//
// Объекты складываются под префиксом <scenario>/<run>/ с сохранением
// относительных путей файлов.
package archive
