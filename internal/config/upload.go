package config

type Upload struct {
	Dir        string `env:"UPLOAD_DIR" envDefault:"uploads"`
	PublicPath string `env:"UPLOAD_PUBLIC_PATH" envDefault:"/uploads"`
	MaxSize    int64  `env:"UPLOAD_MAX_SIZE" envDefault:"10485760"`
	// RestrictImages rejects uploads whose sniffed content is not an image.
	RestrictImages bool `env:"UPLOAD_RESTRICT_IMAGES" envDefault:"false"`
}
