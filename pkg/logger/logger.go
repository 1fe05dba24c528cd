package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New crea un logger JSON con el nivel indicado.
func New(logLevel string) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // nivel por defecto si el configurado no es válido
	}
	log.SetLevel(level)
	return log
}
