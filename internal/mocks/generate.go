// Package mocks provides mock implementations for testing the trash classifier.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the ports.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	gen := mocks.NewMockGenerator(ctrl)
//	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return("text", nil)
package mocks

// Generate mocks for the Generator and ImageDecoder interfaces from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/target/trash-classifier/internal/ports Generator,ImageDecoder
