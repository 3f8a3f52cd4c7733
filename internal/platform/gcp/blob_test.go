package gcp

import "testing"

func TestPublicObjectURL(t *testing.T) {
	cases := []struct {
		name     string
		mode     ObjectStorageMode
		emulator string
		public   string
		key      string
		want     string
	}{
		{name: "gcs default", mode: ObjectStorageModeGCS, key: "audio/u/1-talk.mp3", want: "https://storage.googleapis.com/uploads/audio/u/1-talk.mp3"},
		{name: "gcs with base", mode: ObjectStorageModeGCS, public: "https://cdn.example.com", key: "/text/a.txt", want: "https://cdn.example.com/uploads/text/a.txt"},
		{name: "emulator", mode: ObjectStorageModeGCSEmulator, emulator: "http://fake-gcs:4443", key: "video/v.mp4", want: "http://fake-gcs:4443/storage/v1/b/uploads/o/video%2Fv.mp4?alt=media"},
		{name: "emulator public override", mode: ObjectStorageModeGCSEmulator, emulator: "http://fake-gcs:4443", public: "http://localhost:4443", key: "video/v.mp4", want: "http://localhost:4443/storage/v1/b/uploads/o/video%2Fv.mp4?alt=media"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PublicObjectURL(tc.mode, tc.emulator, tc.public, "uploads", tc.key)
			if got != tc.want {
				t.Fatalf("url: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestContentTypeForKey(t *testing.T) {
	for key, want := range map[string]string{
		"lecture.MP3":   "audio/mpeg",
		"clip.webm":     "video/webm",
		"notes.txt?x=1": "text/plain",
		"slides.pdf":    "application/pdf",
		"unknown.bin":   "application/octet-stream",
	} {
		if got := ContentTypeForKey(key); got != want {
			t.Fatalf("%s: want=%q got=%q", key, want, got)
		}
	}
}
