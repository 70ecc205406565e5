// Package ocr распознаёт номер детали на кадре.
//
// Extractor выполняет конвейер: вырезка области, предобработка (Preprocessor),
// распознавание (Engine), отбор токенов по уверенности и выделение номера
// детали эвристикой из пакета partnumber. Сбои не возвращаются ошибкой:
// результат получает нулевую уверенность, пустой номер и описание в поле Error.
//
// Предобработка на OpenCV собирается с тегом gocv, движок Tesseract (gosseract)
// с тегом tesseract. Без тегов используются заглушки.
package ocr
